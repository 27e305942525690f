package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval matches the editor's one second save cadence.
const DefaultInterval = time.Second

// Saver persists pending changes. Calls with nothing to persist must be
// cheap.
type Saver interface {
	Save() error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func() error

func (fn SaverFunc) Save() error { return fn() }

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// Option customises a Scheduler.
type Option func(*Scheduler)

// WithInterval overrides the save period. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLocker serialises saves with document edits guarded by the same lock.
func WithLocker(l sync.Locker) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.locker = l
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scheduler calls Save on a fixed period.
type Scheduler struct {
	saver    Saver
	interval time.Duration
	locker   sync.Locker
	logger   *zap.Logger

	ticks func(time.Duration) (<-chan time.Time, func())
}

// New constructs a scheduler for saver.
func New(saver Saver, options ...Option) *Scheduler {
	s := &Scheduler{
		saver:    saver,
		interval: DefaultInterval,
		locker:   noopLocker{},
		logger:   zap.NewNop(),
		ticks:    newTicker,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Interval returns the save period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Tick performs one save attempt under the lock. Failures are logged and
// returned; the schedule itself never stops on them.
func (s *Scheduler) Tick() error {
	s.locker.Lock()
	defer s.locker.Unlock()

	if err := s.saver.Save(); err != nil {
		s.logger.Warn("autosave failed", zap.Error(err))
		return err
	}
	return nil
}

// Run ticks until ctx is done, then makes one final attempt so edits made
// since the last tick are not lost. It always returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks, stop := s.ticks(s.interval)
	defer stop()

	s.logger.Debug("autosave started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			_ = s.Tick()
			s.logger.Debug("autosave stopped")
			return nil
		case <-ticks:
			_ = s.Tick()
		}
	}
}
