package parsers

import (
	"sort"
	"sync"

	"github.com/Promptonauts/pipeforge/pkg/errdefs"
)

// Registry maps source slugs to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry returns a registry holding the given parsers.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{parsers: map[string]Parser{}}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// NewDefaultRegistry returns a registry seeded with the built-in parsers.
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewBambooParser())
}

// Register installs a parser under its slug, replacing any previous entry.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Slug()] = p
}

// Get returns the parser registered for slug.
func (r *Registry) Get(slug string) (Parser, error) {
	r.mu.RLock()
	p, ok := r.parsers[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, errdefs.SourceNotFound(slug)
	}
	return p, nil
}

// Slugs returns the registered identifiers in sorted order.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.parsers))
	for slug := range r.parsers {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
