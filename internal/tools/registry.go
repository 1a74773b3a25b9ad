package tools

import (
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Registry holds registered tools and their compiled argument schemas.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	entries map[string]entry
	order   []string // names in registration order
}

// entry is the per-tool state derived at registration.
type entry struct {
	schema *jsonschema.Schema

	// ownsInput is set when the schema declares an "input" property, in
	// which case {"input": {...}} bundles are passed through unchanged.
	ownsInput bool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		entries: make(map[string]entry),
	}
}

// NewDefaultRegistry creates a registry holding the builtin task tools
// followed by extra.
func NewDefaultRegistry(extra ...Tool) (*Registry, error) {
	r := NewRegistry()
	if err := r.RegisterAll(append(Builtin(), extra...)...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a tool to the registry.
// Returns an error if the name is empty or already registered, or if the
// tool's schema does not compile.
func (r *Registry) Register(t Tool) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}

	schema, err := compileSchema(name, t.Schema())
	if err != nil {
		return err
	}
	ownsInput, err := declaresProperty(t.Schema(), inputKey)
	if err != nil {
		return fmt.Errorf("read schema for %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools[name] = t
	r.entries[name] = entry{schema: schema, ownsInput: ownsInput}
	r.order = append(r.order, name)
	return nil
}

// RegisterAll registers tools in order, stopping at the first error.
func (r *Registry) RegisterAll(tools ...Tool) error {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// Find looks up a tool by name.
func (r *Registry) Find(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// All returns all tools in registration order.
func (r *Registry) All() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, len(r.order))
	for i, name := range r.order {
		result[i] = r.tools[name]
	}
	return result
}

// Catalog returns discovery descriptors for all tools in registration order.
func (r *Registry) Catalog() []Descriptor {
	all := r.All()
	result := make([]Descriptor, len(all))
	for i, t := range all {
		result[i] = Describe(t)
	}
	return result
}

func (r *Registry) lookup(name string) (Tool, entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, r.entries[name], ok
}
