package form

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/model"
)

// Factory instantiates the control for one descriptor. The scope carries the
// documents the control binds to; options carry the reset value, filters and
// change notification resolved by the builder.
type Factory func(desc model.Descriptor, scope Scope, options ...controls.Option) (controls.Control, error)

// Registry stores control factories by descriptor kind.
type Registry struct {
	mu        sync.RWMutex
	factories map[model.Kind]Factory
}

// NewRegistry creates a registry with the built-in text, integer, choice and
// separator factories.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[model.Kind]Factory),
	}
	r.Set(model.KindText, textFactory)
	r.Set(model.KindInteger, integerFactory)
	r.Set(model.KindChoice, choiceFactory)
	r.Set(model.KindSeparator, separatorFactory)
	return r
}

// Register adds a factory for kind. Duplicate kinds return an error; use Set
// to override a built-in.
func (r *Registry) Register(kind model.Kind, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("form: factory is required")
	}
	if kind == "" {
		return fmt.Errorf("form: factory kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("form: factory %q already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

// Set registers or replaces the factory for kind.
func (r *Registry) Set(kind model.Kind, factory Factory) {
	if factory == nil || kind == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Get retrieves the factory for kind.
func (r *Registry) Get(kind model.Kind) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return factory, nil
}

// List returns the registered kinds, sorted.
func (r *Registry) List() []model.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]model.Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func textFactory(desc model.Descriptor, scope Scope, options ...controls.Option) (controls.Control, error) {
	return controls.NewText(desc.Label, scope.Target, desc.Path, options...)
}

func integerFactory(desc model.Descriptor, scope Scope, options ...controls.Option) (controls.Control, error) {
	return controls.NewInteger(desc.Label, scope.Target, desc.Path, options...)
}

func choiceFactory(desc model.Descriptor, scope Scope, options ...controls.Option) (controls.Control, error) {
	return controls.NewChoice(desc.Label, scope.Target, desc.Path, scope.Source, desc.ItemsPath, options...)
}

func separatorFactory(desc model.Descriptor, _ Scope, _ ...controls.Option) (controls.Control, error) {
	return controls.NewSeparator(desc.Label), nil
}
