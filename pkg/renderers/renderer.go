// Package renderers maps the neutral models.Pipeline onto vendor CI documents.
package renderers

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/Promptonauts/pipeforge/pkg/models"
)

// Document is an insertion-ordered mapping, so rendered output keeps the
// key order each vendor's files are conventionally written in.
type Document = orderedmap.OrderedMap[string, any]

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return orderedmap.New[string, any]()
}

// Renderer turns a Pipeline into one vendor's document tree. Render never
// fails for a Pipeline produced by a parser.
type Renderer interface {
	Slug() string
	Description() string
	// OutputHint is the conventional file name for the rendered document.
	OutputHint() string
	Render(p *models.Pipeline) *Document
}
