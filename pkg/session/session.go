package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/autosave"
	"github.com/goliatone/go-scorecontrol/pkg/store"
)

// ErrNoStore is returned by a session constructed without a store.
var ErrNoStore = errors.New("session: store is required")

// ReloadFunc is notified with the new document after Open or Reload. The
// document is nil when the file is missing or malformed.
type ReloadFunc func(doc map[string]any) error

// Option customises a Session.
type Option func(*Session)

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Session serialises access to one store.
type Session struct {
	mu        sync.Mutex
	store     *store.Store
	listeners []ReloadFunc
	logger    *zap.Logger
}

// New wraps st.
func New(st *store.Store, options ...Option) (*Session, error) {
	if st == nil {
		return nil, ErrNoStore
	}
	s := &Session{
		store:  st,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Lock acquires the session lock. Session implements sync.Locker so the
// autosave scheduler can share it.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store returns the underlying store.
func (s *Session) Store() *store.Store { return s.store }

// Document returns the live document, or nil. Callers outside Do must hold
// the lock while touching it.
func (s *Session) Document() map[string]any { return s.store.Document() }

// OnReload registers a listener for document swaps.
func (s *Session) OnReload(fn ReloadFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Open re-points the store at path, loads it and notifies listeners.
func (s *Session) Open(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SetPath(path); err != nil {
		return err
	}
	s.logger.Info("document opened", zap.String("path", path), zap.Bool("valid", s.store.IsValid()))
	return s.notify()
}

// Reload re-reads the current file, discarding unsaved edits, and notifies
// listeners.
func (s *Session) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Load(); err != nil {
		return err
	}
	return s.notify()
}

// notify calls listeners in registration order; the first failure stops the
// fan-out.
func (s *Session) notify() error {
	doc := s.store.Document()
	for i, fn := range s.listeners {
		if err := fn(doc); err != nil {
			return fmt.Errorf("session: reload listener %d: %w", i, err)
		}
	}
	return nil
}

// Do runs fn against the live document under the session lock. fn receives
// nil when no valid document is loaded.
func (s *Session) Do(fn func(doc map[string]any) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.store.Document())
}

// Save writes pending changes under the session lock.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save()
}

// Autosave runs an autosave scheduler sharing the session lock until ctx is
// done.
func (s *Session) Autosave(ctx context.Context, interval time.Duration) error {
	return autosave.New(s.store,
		autosave.WithInterval(interval),
		autosave.WithLocker(s),
		autosave.WithLogger(s.logger),
	).Run(ctx)
}
