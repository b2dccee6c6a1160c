package renderers

import (
	"sort"
	"sync"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
)

// Registry maps target slugs to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry returns a registry holding the given renderers.
func NewRegistry(renderers ...Renderer) *Registry {
	r := &Registry{renderers: map[string]Renderer{}}
	for _, renderer := range renderers {
		r.Register(renderer)
	}
	return r
}

// NewDefaultRegistry returns a registry seeded with the built-in renderers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		NewBitbucketRenderer(),
		NewGitLabRenderer(),
		NewGitHubActionsRenderer(),
	)
}

// Register installs a renderer under its slug, replacing any previous entry.
func (r *Registry) Register(renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renderers[renderer.Slug()] = renderer
}

// Get returns the renderer registered for slug.
func (r *Registry) Get(slug string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.renderers[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, errdefs.TargetNotFound(slug)
	}
	return renderer, nil
}

// Slugs returns the registered identifiers in sorted order.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.renderers))
	for slug := range r.renderers {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
