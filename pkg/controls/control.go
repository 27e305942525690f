package controls

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/document"
)

var (
	// ErrTypeMismatch is returned when a bound path holds a value the control
	// cannot represent. It signals a layout/document mismatch.
	ErrTypeMismatch = errors.New("controls: value type does not match control")
	// ErrDisabled is returned for edits against a control with no document.
	ErrDisabled = errors.New("controls: control is disabled")
	// ErrInvalidInput is returned when an edit is rejected by the control's
	// validator. Document and display are left unchanged.
	ErrInvalidInput = errors.New("controls: invalid input")
)

// Control is a live editor bound to one document path.
type Control interface {
	Label() string
	Path() string
	Enabled() bool
	// Text is what the control currently displays.
	Text() string
	// Rebind points the control at a different document or record and
	// re-reads its value.
	Rebind(target map[string]any) error
	// Reset writes the configured reset value. Without one it does nothing.
	Reset() error
}

// SourceRebinder is implemented by controls that read candidates from a
// second document.
type SourceRebinder interface {
	RebindSource(source map[string]any) error
}

// Filter decides whether a choice candidate is offered.
type Filter func(candidate map[string]any) bool

// ChangeFunc is notified with the bound path after every successful write.
type ChangeFunc func(path string)

type config struct {
	reset      any
	hasReset   bool
	typeFilter string
	filter     Filter
	onChange   ChangeFunc
	logger     *zap.Logger
}

// Option configures a control.
type Option func(*config)

// WithReset configures the value written by Reset.
func WithReset(value any) Option {
	return func(c *config) {
		c.reset = value
		c.hasReset = true
	}
}

// WithTypeFilter keeps only candidates whose `type` equals typ.
func WithTypeFilter(typ string) Option {
	return func(c *config) {
		c.typeFilter = typ
	}
}

// WithFilter adds a candidate predicate, applied after the type filter.
func WithFilter(fn Filter) Option {
	return func(c *config) {
		c.filter = fn
	}
}

// WithOnChange registers a write notification.
func WithOnChange(fn ChangeFunc) Option {
	return func(c *config) {
		c.onChange = fn
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

func (c *config) write(doc map[string]any, path document.Path, value any) error {
	if err := document.Assign(doc, path, value); err != nil {
		return fmt.Errorf("controls: write %q: %w", path.String(), err)
	}
	c.logger.Debug("control wrote value", zap.String("path", path.String()), zap.Any("value", value))
	if c.onChange != nil {
		c.onChange(path.String())
	}
	return nil
}

func typeMismatch(control string, path document.Path, got document.Kind) error {
	return fmt.Errorf("%w: %s control at %q found %s", ErrTypeMismatch, control, path.String(), got)
}

func parsePath(raw string) (document.Path, error) {
	p, err := document.ParsePath(raw)
	if err != nil {
		return nil, fmt.Errorf("controls: %w", err)
	}
	return p, nil
}

func resetText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

func resetInt(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(t), nil
	case int64:
		return t, nil
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			return 0, nil
		}
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: reset value %q is not an integer", ErrInvalidInput, t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: reset value %v (%T) is not an integer", ErrInvalidInput, v, v)
	}
}

var (
	_ Control        = (*TextField)(nil)
	_ Control        = (*IntegerField)(nil)
	_ Control        = (*ChoiceField)(nil)
	_ Control        = (*Separator)(nil)
	_ SourceRebinder = (*ChoiceField)(nil)
)
