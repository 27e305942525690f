package controls

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-scorecontrol/pkg/document"
)

// The stepper buttons and the typed entry box validate against different
// ranges. Both are kept as they are.
const (
	StepperMin = 0
	StepperMax = 100
	EntryMin   = -1
	EntryMax   = 999

	StepSmall = 1
	StepLarge = 5
)

// IntegerField edits an integer slot through stepper buttons (-5, -1, +1, +5)
// or a typed entry. Reading an absent path stores 0 there.
type IntegerField struct {
	label string
	path  document.Path
	doc   map[string]any
	value int64
	text  string
	cfg   config
}

// NewInteger binds an integer field. It fails with ErrTypeMismatch when the
// path holds anything other than an integer.
func NewInteger(label string, doc map[string]any, path string, options ...Option) (*IntegerField, error) {
	p, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	f := &IntegerField{
		label: label,
		path:  p,
		doc:   doc,
		cfg:   newConfig(options),
	}
	if err := f.read(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *IntegerField) read() error {
	f.value = 0
	f.text = ""
	if f.doc == nil {
		return nil
	}
	val := document.Lookup(f.doc, f.path)
	switch val.Kind() {
	case document.KindAbsent:
		return f.write(0)
	case document.KindInteger:
		n, _ := val.AsInt()
		f.value = n
		f.text = strconv.FormatInt(n, 10)
		return nil
	default:
		return typeMismatch("integer", f.path, val.Kind())
	}
}

func (f *IntegerField) write(n int64) error {
	if err := f.cfg.write(f.doc, f.path, n); err != nil {
		return err
	}
	f.value = n
	f.text = strconv.FormatInt(n, 10)
	return nil
}

func (f *IntegerField) Label() string { return f.label }

func (f *IntegerField) Path() string { return f.path.String() }

func (f *IntegerField) Enabled() bool { return f.doc != nil }

func (f *IntegerField) Text() string { return f.text }

// Value returns the integer last written or read.
func (f *IntegerField) Value() int64 { return f.value }

// Step adds delta and clamps the result to the stepper range. A typed value
// already outside that range is never pulled across it: stepping away from
// the range leaves the value unchanged, stepping toward it moves by delta.
func (f *IntegerField) Step(delta int) error {
	if f.doc == nil {
		return ErrDisabled
	}
	next := f.value + int64(delta)
	if delta < 0 && next < StepperMin {
		next = min(f.value, StepperMin)
	}
	if delta > 0 && next > StepperMax {
		next = max(f.value, StepperMax)
	}
	return f.write(next)
}

// SetText applies typed input. Empty input stores 0 and displays nothing;
// anything that is not an integer within the entry range is rejected.
func (f *IntegerField) SetText(text string) error {
	if f.doc == nil {
		return ErrDisabled
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		if err := f.cfg.write(f.doc, f.path, int64(0)); err != nil {
			return err
		}
		f.value = 0
		f.text = ""
		return nil
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not an integer", ErrInvalidInput, text)
	}
	if n < EntryMin || n > EntryMax {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidInput, n, EntryMin, EntryMax)
	}
	if err := f.cfg.write(f.doc, f.path, n); err != nil {
		return err
	}
	f.value = n
	f.text = trimmed
	return nil
}

func (f *IntegerField) Rebind(doc map[string]any) error {
	f.doc = doc
	return f.read()
}

func (f *IntegerField) Reset() error {
	if !f.cfg.hasReset || f.doc == nil {
		return nil
	}
	n, err := resetInt(f.cfg.reset)
	if err != nil {
		return err
	}
	return f.write(n)
}
