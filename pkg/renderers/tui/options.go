package tui

import (
	"io"
	"sync"

	"go.uber.org/zap"
)

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling menu logic to ANSI specifics.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput sets where the default driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithLocker guards every document write, typically with the session so the
// autosave loop never sees a half applied edit.
func WithLocker(l sync.Locker) Option {
	return func(r *Runner) {
		if l != nil {
			r.locker = l
		}
	}
}

// WithSave adds a "Save now" entry to the main menu. fn runs without the
// runner's lock, so it may take the session lock itself.
func WithSave(fn func() error) Option {
	return func(r *Runner) {
		r.save = fn
	}
}

// WithReload adds a "Reload from disk" entry to the main menu. Like WithSave,
// fn runs without the runner's lock.
func WithReload(fn func() error) Option {
	return func(r *Runner) {
		r.reload = fn
	}
}

// WithPageSize limits how many options a select prompt shows at once.
func WithPageSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}
