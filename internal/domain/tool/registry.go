package tool

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrToolAlreadyRegistered = errors.New("tool already registered")
	ErrToolNotFound          = errors.New("tool not found")
)

// Entry pairs a descriptor with the executor that implements it.
type Entry struct {
	Descriptor Descriptor
	Executor   Executor
}

// Registry is the ordered collection of named tools. It is populated
// during startup and treated as read-only afterward: the pipeline
// composer snapshots it once; Resolve is safe for concurrent use as
// long as no Register call races it.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds a tool under its descriptor name. The descriptor is
// validated first; a duplicate name is rejected rather than replaced so
// startup wiring mistakes fail loudly.
func (r *Registry) Register(d Descriptor, ex Executor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if ex == nil {
		return fmt.Errorf("register %q: executor is required", d.Name)
	}
	name := strings.TrimSpace(d.Name)
	d.Name = name
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrToolAlreadyRegistered)
	}
	r.entries[name] = Entry{Descriptor: d, Executor: ex}
	return nil
}

// Resolve returns the descriptor and executor for name.
func (r *Registry) Resolve(name string) (Descriptor, Executor, error) {
	e, ok := r.entries[name]
	if !ok {
		return Descriptor{}, nil, fmt.Errorf("resolve %q: %w", name, ErrToolNotFound)
	}
	return e.Descriptor, e.Executor, nil
}

// All returns every registered entry sorted by tool name, for
// deterministic composition and export.
func (r *Registry) All() []Entry {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, r.entries[name])
	}
	return out
}
