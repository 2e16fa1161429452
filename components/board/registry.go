package board

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a widget for the given merged options.
type Factory func(opts ComponentOptions) (Widget, error)

// ComponentDefinition is the metadata published for a component type.
type ComponentDefinition struct {
	Type         string         `json:"type" yaml:"type"`
	Name         string         `json:"name" yaml:"name"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	Category     string         `json:"category,omitempty" yaml:"category,omitempty"`
	Schema       map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
	DropDefaults map[string]any `json:"dropDefaults,omitempty" yaml:"dropDefaults,omitempty"`
}

// ComponentHook lets packages register components against new registries.
type ComponentHook func(reg *ComponentRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ComponentHook
)

// RegisterComponentHook registers a hook executed against new registries.
func RegisterComponentHook(h ComponentHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// ResetComponentHooks drops every registered hook.
func ResetComponentHooks() {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = nil
}

// ComponentRegistry maps component type names to factories and definitions.
// Lookups happen at bind time, so registration order relative to board
// construction does not matter.
type ComponentRegistry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	definitions  map[string]ComponentDefinition
	manifestMeta map[string]ManifestSource
}

// NewComponentRegistry builds a registry and applies global hooks.
func NewComponentRegistry() *ComponentRegistry {
	reg := &ComponentRegistry{
		factories:    map[string]Factory{},
		definitions:  map[string]ComponentDefinition{},
		manifestMeta: map[string]ManifestSource{},
	}
	_ = reg.ApplyHooks()
	return reg
}

// ApplyHooks executes registered component hooks.
func (r *ComponentRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	hooks := append([]ComponentHook{}, globalHooks...)
	globalHookMu.Unlock()
	for _, hook := range hooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterComponent associates a factory with a type name. A type can be
// registered once; a second registration fails with DuplicateTypeError.
func (r *ComponentRegistry) RegisterComponent(typeName string, factory Factory) error {
	if typeName == "" {
		return fmt.Errorf("board: component type name is required")
	}
	if factory == nil {
		return fmt.Errorf("board: factory for %q cannot be nil", typeName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[typeName]; exists {
		return &DuplicateTypeError{Type: typeName}
	}
	r.factories[typeName] = factory
	if _, ok := r.definitions[typeName]; !ok {
		r.definitions[typeName] = ComponentDefinition{Type: typeName, Name: typeName}
	}
	return nil
}

// Resolve returns the factory for typeName.
func (r *ComponentRegistry) Resolve(typeName string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[typeName]
	if !ok {
		return nil, &UnknownComponentTypeError{Type: typeName}
	}
	return factory, nil
}

// RegisterDefinition stores component metadata, replacing any previous entry.
func (r *ComponentRegistry) RegisterDefinition(def ComponentDefinition) error {
	if def.Type == "" {
		return fmt.Errorf("board: component definition type is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Type] = def
	return nil
}

// Definition fetches a component definition by type.
func (r *ComponentRegistry) Definition(typeName string) (ComponentDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[typeName]
	return def, ok
}

// Definitions returns every definition sorted by type.
func (r *ComponentRegistry) Definitions() []ComponentDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ComponentDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Type < defs[j].Type })
	return defs
}

// Types returns the registered component types that have a factory, sorted.
func (r *ComponentRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ManifestSource returns the manifest metadata recorded for a type.
func (r *ComponentRegistry) ManifestSource(typeName string) (ManifestSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[typeName]
	return meta, ok
}

func (r *ComponentRegistry) recordManifestSource(typeName string, meta ManifestSource) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[typeName] = meta
}
