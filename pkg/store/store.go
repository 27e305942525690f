package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/document"
)

// FileSystem is the file access the store needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// WriteHook runs after the document has been written to disk.
type WriteHook func(doc map[string]any)

// Store owns the live document for one backing file and writes it back only
// when it differs from the last loaded or saved snapshot.
type Store struct {
	path     string
	doc      map[string]any
	snapshot map[string]any

	fs     FileSystem
	perm   fs.FileMode
	logger *zap.Logger
	hooks  []WriteHook
}

// Option configures a Store.
type Option func(*Store)

// WithFileSystem swaps the file access used for load and save.
func WithFileSystem(fsys FileSystem) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFileMode sets the permissions used when the file is written.
func WithFileMode(perm fs.FileMode) Option {
	return func(s *Store) {
		if perm != 0 {
			s.perm = perm
		}
	}
}

// New points a store at path and loads it. A missing or malformed file leaves
// the store invalid; the error return is reserved for unexpected I/O failures.
func New(path string, options ...Option) (*Store, error) {
	s := &Store{
		fs:     osFS{},
		perm:   0o644,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, s.SetPath(path)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// SetPath re-points the store at a different file and loads it.
func (s *Store) SetPath(path string) error {
	s.path = path
	return s.Load()
}

// Load reads and parses the backing file, replacing the live document.
func (s *Store) Load() error {
	s.doc = nil
	s.snapshot = nil
	if s.path == "" {
		return nil
	}

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("document file missing", zap.String("path", s.path))
			return nil
		}
		s.logger.Warn("document file unreadable", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("store: read %s: %w", s.path, err)
	}

	doc, err := document.Decode(data)
	if err != nil {
		s.logger.Info("document file is not a JSON object", zap.String("path", s.path), zap.Error(err))
		return nil
	}

	s.doc = doc
	s.snapshot = document.Clone(doc)
	s.logger.Debug("document loaded", zap.String("path", s.path), zap.Int("keys", len(doc)))
	return nil
}

// IsValid reports whether a well formed object document is loaded.
func (s *Store) IsValid() bool {
	return s != nil && s.doc != nil
}

// Document returns the live document, or nil when the store is invalid.
// Callers mutate the returned map in place.
func (s *Store) Document() map[string]any {
	if !s.IsValid() {
		return nil
	}
	return s.doc
}

// Dirty reports whether the live document differs from the snapshot.
func (s *Store) Dirty() bool {
	if !s.IsValid() {
		return false
	}
	return !cmp.Equal(s.snapshot, s.doc)
}

// OnWrite registers a hook that runs after every successful write.
func (s *Store) OnWrite(hook WriteHook) {
	if hook == nil {
		return
	}
	s.hooks = append(s.hooks, hook)
}

// Save writes the document when it changed since the last load or save.
func (s *Store) Save() error {
	if !s.Dirty() {
		return nil
	}

	data, err := document.Encode(s.doc)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := s.fs.WriteFile(s.path, data, s.perm); err != nil {
		s.logger.Warn("document write failed", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}

	s.snapshot = document.Clone(s.doc)
	s.logger.Debug("document saved", zap.String("path", s.path), zap.Int("bytes", len(data)))
	for _, hook := range s.hooks {
		hook(s.doc)
	}
	return nil
}
