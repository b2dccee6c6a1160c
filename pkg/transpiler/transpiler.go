// Package transpiler drives a conversion: source lookup, parse, target
// lookup, render.
package transpiler

import (
	"github.com/pkg/errors"

	"github.com/Promptonauts/pipeforge/pkg/codec"
	"github.com/Promptonauts/pipeforge/pkg/models"
	"github.com/Promptonauts/pipeforge/pkg/parsers"
	"github.com/Promptonauts/pipeforge/pkg/renderers"
)

const (
	DefaultSource = "bamboo"
	DefaultTarget = "bitbucket"
)

// Transpiler converts pipeline documents between vendors.
type Transpiler struct {
	parsers   *parsers.Registry
	renderers *renderers.Registry
}

// New returns a Transpiler over the given registries. Nil registries are
// replaced by the built-in defaults.
func New(p *parsers.Registry, r *renderers.Registry) *Transpiler {
	if p == nil {
		p = parsers.NewDefaultRegistry()
	}
	if r == nil {
		r = renderers.NewDefaultRegistry()
	}
	return &Transpiler{parsers: p, renderers: r}
}

// Result is the outcome of a successful conversion.
type Result struct {
	Pipeline *models.Pipeline
	Document *renderers.Document
}

// Convert parses raw with the source parser and renders it with the target
// renderer. Nothing is returned unless both succeed.
func (t *Transpiler) Convert(raw any, source, target, name string) (*Result, error) {
	parser, err := t.parsers.Get(source)
	if err != nil {
		return nil, err
	}
	pipeline, err := parser.Parse(raw, name)
	if err != nil {
		return nil, err
	}
	renderer, err := t.renderers.Get(target)
	if err != nil {
		return nil, err
	}
	return &Result{Pipeline: pipeline, Document: renderer.Render(pipeline)}, nil
}

// ConvertBytes decodes YAML input, converts it and encodes the result.
func (t *Transpiler) ConvertBytes(data []byte, source, target, name string) ([]byte, *Result, error) {
	raw, err := codec.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	res, err := t.Convert(raw, source, target, name)
	if err != nil {
		return nil, nil, err
	}
	out, err := codec.Encode(res.Document)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "render %s", target)
	}
	return out, res, nil
}

func (t *Transpiler) AvailableSources() []string {
	return t.parsers.Slugs()
}

func (t *Transpiler) AvailableTargets() []string {
	return t.renderers.Slugs()
}

// OutputHint returns the conventional file name for target's output.
func (t *Transpiler) OutputHint(target string) (string, error) {
	renderer, err := t.renderers.Get(target)
	if err != nil {
		return "", err
	}
	return renderer.OutputHint(), nil
}
