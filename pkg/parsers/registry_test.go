package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
	"github.com/Promptonauts/pipeforge/pkg/models"
)

type stubParser struct {
	slug string
	name string
}

func (s stubParser) Slug() string        { return s.slug }
func (s stubParser) Description() string { return "stub" }
func (s stubParser) Parse(any, string) (*models.Pipeline, error) {
	return &models.Pipeline{Name: s.name}, nil
}

func TestDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, []string{"bamboo"}, r.Slugs())
	p, err := r.Get("bamboo")
	require.NoError(t, err)
	assert.Equal(t, "Atlassian Bamboo Specs", p.Description())
}

func TestRegistryGetUnknown(t *testing.T) {
	_, err := NewDefaultRegistry().Get("jenkins")
	require.Error(t, err)
	assert.ErrorIs(t, err, errdefs.ErrSourceNotFound)
	assert.NotErrorIs(t, err, errdefs.ErrTargetNotFound)
}

func TestRegistryOverwrite(t *testing.T) {
	r := NewRegistry(stubParser{slug: "x", name: "first"})
	r.Register(stubParser{slug: "x", name: "second"})
	r.Register(stubParser{slug: "a", name: "other"})

	assert.Equal(t, []string{"a", "x"}, r.Slugs())
	p, err := r.Get("x")
	require.NoError(t, err)
	out, err := p.Parse(nil, "")
	require.NoError(t, err)
	assert.Equal(t, "second", out.Name)
}
