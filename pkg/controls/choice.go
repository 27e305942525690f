package controls

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/document"
)

// ChoiceField selects one record name out of an array of records, writing the
// chosen name to a target path. Candidates are filtered by an optional type
// filter and an optional predicate; the source order is kept.
type ChoiceField struct {
	label      string
	target     map[string]any
	targetPath document.Path
	source     map[string]any
	sourcePath document.Path
	filter     Filter

	options  []string
	selected int
	current  string
	cfg      config
}

// NewChoice binds a choice field. Candidates come from the array at
// sourcePath in source; the selection is stored at targetPath in target.
func NewChoice(label string, target map[string]any, targetPath string, source map[string]any, sourcePath string, options ...Option) (*ChoiceField, error) {
	tp, err := parsePath(targetPath)
	if err != nil {
		return nil, err
	}
	sp, err := parsePath(sourcePath)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(options)
	f := &ChoiceField{
		label:      label,
		target:     target,
		targetPath: tp,
		source:     source,
		sourcePath: sp,
		filter:     composeFilters(typeFilter(cfg.typeFilter), cfg.filter),
		selected:   -1,
		cfg:        cfg,
	}
	if err := f.readCurrent(); err != nil {
		return nil, err
	}
	if err := f.populate(); err != nil {
		return nil, err
	}
	return f, nil
}

func typeFilter(typ string) Filter {
	if typ == "" {
		return nil
	}
	return func(candidate map[string]any) bool {
		got, ok := candidate["type"].(string)
		return ok && got == typ
	}
}

func composeFilters(filters ...Filter) Filter {
	var active []Filter
	for _, fn := range filters {
		if fn != nil {
			active = append(active, fn)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(candidate map[string]any) bool {
		for _, fn := range active {
			if !fn(candidate) {
				return false
			}
		}
		return true
	}
}

func (f *ChoiceField) readCurrent() error {
	f.current = ""
	if f.target == nil {
		return nil
	}
	val := document.Lookup(f.target, f.targetPath)
	switch val.Kind() {
	case document.KindAbsent:
		return nil
	case document.KindString:
		f.current, _ = val.AsString()
		return nil
	default:
		return typeMismatch("choice", f.targetPath, val.Kind())
	}
}

// populate rebuilds the option list from scratch. It is safe to call any
// number of times.
func (f *ChoiceField) populate() error {
	f.options = f.options[:0]
	f.selected = -1
	if f.source == nil {
		return nil
	}

	val := document.Lookup(f.source, f.sourcePath)
	if val.IsAbsent() {
		return nil
	}
	items, ok := val.AsArray()
	if !ok {
		return fmt.Errorf("%w: choice source %q holds %s", ErrTypeMismatch, f.sourcePath.String(), val.Kind())
	}

	for i, item := range items {
		candidate, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: choice source %q element %d is %T", ErrTypeMismatch, f.sourcePath.String(), i, item)
		}
		if f.filter != nil && !f.filter(candidate) {
			continue
		}
		name, ok := candidate["name"].(string)
		if !ok {
			return fmt.Errorf("%w: choice source %q element %d has no name", ErrTypeMismatch, f.sourcePath.String(), i)
		}
		if f.selected < 0 && name == f.current {
			f.selected = len(f.options)
		}
		f.options = append(f.options, name)
	}

	if f.selected < 0 && len(f.options) > 0 {
		f.selected = 0
		f.current = f.options[0]
	}
	f.cfg.logger.Debug("choice populated",
		zap.String("path", f.targetPath.String()),
		zap.Int("candidates", len(items)),
		zap.Int("options", len(f.options)),
		zap.Int("selected", f.selected))
	return nil
}

func (f *ChoiceField) Label() string { return f.label }

func (f *ChoiceField) Path() string { return f.targetPath.String() }

// SourcePath returns the path of the candidate array.
func (f *ChoiceField) SourcePath() string { return f.sourcePath.String() }

// Enabled is false without a target document or when no candidate survives
// filtering.
func (f *ChoiceField) Enabled() bool {
	return f.target != nil && len(f.options) > 0
}

// Text returns the visible option.
func (f *ChoiceField) Text() string {
	if f.selected < 0 || f.selected >= len(f.options) {
		return ""
	}
	return f.options[f.selected]
}

// Current returns the control's value. After a reset to a name that is not
// among the options it differs from Text.
func (f *ChoiceField) Current() string { return f.current }

// Options returns the surviving candidate names in source order.
func (f *ChoiceField) Options() []string {
	return append([]string(nil), f.options...)
}

// Selected returns the index of the visible option, or -1.
func (f *ChoiceField) Selected() int { return f.selected }

// Select chooses the option at index and writes its name to the target.
func (f *ChoiceField) Select(index int) error {
	if !f.Enabled() {
		return ErrDisabled
	}
	if index < 0 || index >= len(f.options) {
		return fmt.Errorf("%w: option %d of %d", ErrInvalidInput, index, len(f.options))
	}
	name := f.options[index]
	if err := f.cfg.write(f.target, f.targetPath, name); err != nil {
		return err
	}
	f.selected = index
	f.current = name
	return nil
}

// SelectName chooses the option carrying name.
func (f *ChoiceField) SelectName(name string) error {
	for i, option := range f.options {
		if option == name {
			return f.Select(i)
		}
	}
	return fmt.Errorf("%w: %q is not an option", ErrInvalidInput, name)
}

// SetFilter replaces the active predicate and repopulates.
func (f *ChoiceField) SetFilter(fn Filter) error {
	f.filter = fn
	return f.populate()
}

// SetTypeFilter replaces the active predicate with a `type` equality test.
// An empty type clears filtering.
func (f *ChoiceField) SetTypeFilter(typ string) error {
	return f.SetFilter(typeFilter(typ))
}

// Refresh repopulates against the current filter, e.g. after a field the
// predicate depends on has changed.
func (f *ChoiceField) Refresh() error {
	return f.populate()
}

// RebindSource swaps the candidate document and repopulates.
func (f *ChoiceField) RebindSource(source map[string]any) error {
	f.source = source
	return f.populate()
}

// RebindTarget swaps the target document, re-reads the current value and
// repopulates.
func (f *ChoiceField) RebindTarget(target map[string]any) error {
	f.target = target
	if err := f.readCurrent(); err != nil {
		return err
	}
	return f.populate()
}

func (f *ChoiceField) Rebind(target map[string]any) error {
	return f.RebindTarget(target)
}

// Reset writes the configured value even when no option carries that name.
// The visible selection only follows when the name is an option.
func (f *ChoiceField) Reset() error {
	if !f.cfg.hasReset || f.target == nil {
		return nil
	}
	name := resetText(f.cfg.reset)
	if err := f.cfg.write(f.target, f.targetPath, name); err != nil {
		return err
	}
	f.current = name
	for i, option := range f.options {
		if option == name {
			f.selected = i
			break
		}
	}
	return nil
}
