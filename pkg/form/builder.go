package form

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/controls"
	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/model"
)

var (
	// ErrUnknownKind is returned when no factory is registered for a
	// descriptor kind.
	ErrUnknownKind = errors.New("form: unknown control kind")
)

// Scope names the documents a form binds to. Target receives edits; Source
// supplies choice candidates. For a main form both are the session document;
// for a record detail pane Target is the record.
type Scope struct {
	Target map[string]any
	Source map[string]any
}

// Mounter receives every control as it is instantiated, in layout order. A
// front end uses it to place widgets.
type Mounter interface {
	Mount(desc model.Descriptor, control controls.Control)
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(desc model.Descriptor, control controls.Control)

func (fn MounterFunc) Mount(desc model.Descriptor, control controls.Control) {
	fn(desc, control)
}

// Option customises a Builder.
type Option func(*Builder)

// WithRegistry injects a factory registry.
func WithRegistry(registry *Registry) Option {
	return func(b *Builder) {
		if registry != nil {
			b.registry = registry
		}
	}
}

// WithMounter registers a mounter notified for every created control.
func WithMounter(m Mounter) Option {
	return func(b *Builder) {
		b.mounter = m
	}
}

// WithLogger attaches a logger, also handed to every control.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// Builder turns descriptor layouts into forms of bound controls.
type Builder struct {
	registry *Registry
	mounter  Mounter
	logger   *zap.Logger
}

// NewBuilder constructs a builder with the built-in registry.
func NewBuilder(options ...Option) *Builder {
	b := &Builder{
		registry: NewRegistry(),
		logger:   zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Build validates layout and instantiates one control per descriptor, in
// order, bound to scope.
func (b *Builder) Build(layout model.Layout, scope Scope) (*Form, error) {
	f := &Form{
		builder:    b,
		scope:      scope,
		byPath:     make(map[string]controls.Control),
		dependents: make(map[string][]*controls.ChoiceField),
	}
	if err := f.Add(layout); err != nil {
		return nil, err
	}
	return f, nil
}

// Form is the ordered control list produced from one or more layouts. Bulk
// operations walk it uniformly; separators satisfy them with no-ops.
type Form struct {
	builder    *Builder
	scope      Scope
	controls   []controls.Control
	byPath     map[string]controls.Control
	dependents map[string][]*controls.ChoiceField
}

// Add appends the controls of layout to the form. The layout is validated in
// full before any control is created and is cloned, never retained.
func (f *Form) Add(layout model.Layout) error {
	if err := layout.Validate(); err != nil {
		return fmt.Errorf("form: %w", err)
	}
	for i, desc := range layout.Clone() {
		control, err := f.instantiate(desc)
		if err != nil {
			return fmt.Errorf("form: descriptor %d (%s %q): %w", i, desc.Kind, desc.Path, err)
		}
		f.controls = append(f.controls, control)
		if desc.Path != "" {
			f.byPath[desc.Path] = control
		}
		if f.builder.mounter != nil {
			f.builder.mounter.Mount(desc, control)
		}
	}
	f.builder.logger.Debug("form layout added",
		zap.Int("descriptors", len(layout)),
		zap.Int("controls", len(f.controls)))
	return nil
}

func (f *Form) instantiate(desc model.Descriptor) (controls.Control, error) {
	factory, err := f.builder.registry.Get(desc.Kind)
	if err != nil {
		return nil, err
	}

	options := []controls.Option{
		controls.WithLogger(f.builder.logger),
		controls.WithOnChange(f.changed),
	}
	if desc.Reset != nil {
		reset, err := model.ResetScalar(desc.Reset)
		if err != nil {
			return nil, err
		}
		options = append(options, controls.WithReset(reset))
	}
	if desc.Kind == model.KindChoice {
		if desc.TypeFilter != "" {
			options = append(options, controls.WithTypeFilter(desc.TypeFilter))
		}
		if filter := f.resolvePredicate(desc.Predicate); filter != nil {
			options = append(options, controls.WithFilter(filter))
		}
	}

	var sibling string
	if desc.Predicate.Kind == model.PredicateMatchesSibling {
		p, err := document.ParsePath(desc.Predicate.Sibling)
		if err != nil {
			return nil, err
		}
		sibling = p.String()
	}

	control, err := factory(desc, f.scope, options...)
	if err != nil {
		return nil, err
	}
	if choice, ok := control.(*controls.ChoiceField); ok && sibling != "" {
		f.dependents[sibling] = append(f.dependents[sibling], choice)
	}
	return control, nil
}

// resolvePredicate binds a predicate to the form's scope. The closure reads
// the scope at call time so it follows RebindAll and RebindTarget.
func (f *Form) resolvePredicate(p model.Predicate) controls.Filter {
	switch p.Kind {
	case model.PredicateAlwaysTrue:
		return func(map[string]any) bool { return true }
	case model.PredicateMatchesSibling:
		attribute := p.Attribute
		sibling := p.Sibling
		return func(candidate map[string]any) bool {
			got, ok := candidate[attribute]
			if !ok || got == nil {
				return true
			}
			value, ok := got.(string)
			if !ok {
				return false
			}
			if value == "" || value == "None" {
				return true
			}
			want, _ := document.Get(f.scope.Target, sibling).Text()
			return value == want
		}
	}
	return nil
}

// Changed repopulates every choice whose predicate reads path. Controls call
// it through their change hook; callers that write the document directly
// call it themselves.
func (f *Form) Changed(path string) {
	if p, err := document.ParsePath(path); err == nil {
		path = p.String()
	}
	f.changed(path)
}

func (f *Form) changed(path string) {
	for _, choice := range f.dependents[path] {
		if err := choice.Refresh(); err != nil {
			f.builder.logger.Warn("dependent choice refresh failed",
				zap.String("sibling", path),
				zap.String("path", choice.Path()),
				zap.Error(err))
		}
	}
}

// Controls returns the controls in layout order.
func (f *Form) Controls() []controls.Control {
	return append([]controls.Control(nil), f.controls...)
}

// Len returns the number of controls, separators included.
func (f *Form) Len() int { return len(f.controls) }

// Lookup returns the control bound to path, last registration wins.
func (f *Form) Lookup(path string) (controls.Control, bool) {
	control, ok := f.byPath[path]
	return control, ok
}

// Scope returns the documents the form is currently bound to.
func (f *Form) Scope() Scope { return f.scope }

// ResetAll writes every configured reset value. All controls are visited;
// failures are joined.
func (f *Form) ResetAll() error {
	var errs []error
	for _, control := range f.controls {
		if err := control.Reset(); err != nil {
			errs = append(errs, fmt.Errorf("reset %q: %w", control.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// RebindAll points every control at doc for both target and candidate source.
func (f *Form) RebindAll(doc map[string]any) error {
	f.scope = Scope{Target: doc, Source: doc}
	var errs []error
	for _, control := range f.controls {
		if sr, ok := control.(controls.SourceRebinder); ok {
			if err := sr.RebindSource(doc); err != nil {
				errs = append(errs, fmt.Errorf("rebind source %q: %w", control.Path(), err))
				continue
			}
		}
		if err := control.Rebind(doc); err != nil {
			errs = append(errs, fmt.Errorf("rebind %q: %w", control.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// RebindTarget points every control at a new edit target, keeping the
// candidate source. A nil target disables the form.
func (f *Form) RebindTarget(target map[string]any) error {
	f.scope.Target = target
	var errs []error
	for _, control := range f.controls {
		if err := control.Rebind(target); err != nil {
			errs = append(errs, fmt.Errorf("rebind %q: %w", control.Path(), err))
		}
	}
	return errors.Join(errs...)
}

// RebindSource points every choice at a new candidate document.
func (f *Form) RebindSource(source map[string]any) error {
	f.scope.Source = source
	var errs []error
	for _, control := range f.controls {
		sr, ok := control.(controls.SourceRebinder)
		if !ok {
			continue
		}
		if err := sr.RebindSource(source); err != nil {
			errs = append(errs, fmt.Errorf("rebind source %q: %w", control.Path(), err))
		}
	}
	return errors.Join(errs...)
}
