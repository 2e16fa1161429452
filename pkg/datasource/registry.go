package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds named sources and caches the tables they produce, so a
// chart and a grid bound to the same source share one load.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	tables  map[string]Table
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: map[string]Source{},
		tables:  map[string]Table{},
	}
}

// Register adds or replaces a source and drops any cached table for it.
func (r *Registry) Register(src Source) error {
	if src == nil || src.Name() == "" {
		return fmt.Errorf("datasource: source name is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[src.Name()] = src
	delete(r.tables, src.Name())
	return nil
}

// Has reports whether a source is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sources[name]
	return ok
}

// Names lists registered sources.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sources))
	for name := range r.sources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Load returns the cached table or loads it from the source.
func (r *Registry) Load(ctx context.Context, name string) (Table, error) {
	r.mu.RLock()
	table, cached := r.tables[name]
	src, ok := r.sources[name]
	r.mu.RUnlock()
	if cached {
		return table, nil
	}
	if !ok {
		return Table{}, fmt.Errorf("datasource: source %q not registered", name)
	}
	table, err := src.Load(ctx)
	if err != nil {
		return Table{}, err
	}
	r.mu.Lock()
	r.tables[name] = table
	r.mu.Unlock()
	return table, nil
}

// Invalidate drops the cached table for name.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, name)
}
