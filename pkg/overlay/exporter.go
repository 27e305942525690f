package overlay

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/document"
	"github.com/goliatone/go-scorecontrol/pkg/layout"
	"github.com/goliatone/go-scorecontrol/pkg/store"
)

// DefaultPageName is the file the overlay page is written to.
const DefaultPageName = "overlay.html"

// DefaultRefresh is the page reload interval, in seconds.
const DefaultRefresh = 1

// ErrNoDirectory is returned by New when no output directory is given.
var ErrNoDirectory = errors.New("overlay: output directory is required")

// FileSystem is the file access the exporter needs.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	MkdirAll(path string, perm fs.FileMode) error
}

type osFS struct{}

func (osFS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

func (osFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (osFS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

// Option configures an Exporter.
type Option func(*config)

type config struct {
	fs        FileSystem
	logger    *zap.Logger
	templates fs.FS
	template  string
	page      string
	refresh   int
}

// WithFileSystem swaps the file access used for writes.
func WithFileSystem(fsys FileSystem) Option {
	return func(cfg *config) {
		if fsys != nil {
			cfg.fs = fsys
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithTemplates renders the page from name inside files instead of the
// embedded template.
func WithTemplates(files fs.FS, name string) Option {
	return func(cfg *config) {
		if files == nil || strings.TrimSpace(name) == "" {
			return
		}
		cfg.templates = files
		cfg.template = strings.TrimSpace(name)
	}
}

// WithPage sets the page file name. An empty name disables the page.
func WithPage(name string) Option {
	return func(cfg *config) {
		cfg.page = strings.TrimSpace(name)
	}
}

// WithRefresh sets the page reload interval in seconds.
func WithRefresh(seconds int) Option {
	return func(cfg *config) {
		if seconds > 0 {
			cfg.refresh = seconds
		}
	}
}

// Exporter mirrors document values into the text files a streaming scene
// reads, plus an HTML page showing all of them.
type Exporter struct {
	mu      sync.Mutex
	dir     string
	screen  layout.Screen
	fs      FileSystem
	logger  *zap.Logger
	page    string
	refresh int
	tmpl    *pongo2.Template
	written map[string]string
}

// Entry is one exported value.
type Entry struct {
	File  string
	Path  string
	Label string
	Value string
}

// New prepares an exporter writing the screen's overlay files into dir.
func New(dir string, screen layout.Screen, options ...Option) (*Exporter, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, ErrNoDirectory
	}
	cfg := config{
		fs:        osFS{},
		logger:    zap.NewNop(),
		templates: EmbeddedTemplates(),
		template:  DefaultPageTemplate,
		page:      DefaultPageName,
		refresh:   DefaultRefresh,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	e := &Exporter{
		dir:     dir,
		screen:  screen,
		fs:      cfg.fs,
		logger:  cfg.logger,
		page:    cfg.page,
		refresh: cfg.refresh,
		written: make(map[string]string),
	}
	if e.page != "" {
		set := pongo2.NewSet("overlay", pongo2.NewFSLoader(cfg.templates))
		tmpl, err := set.FromFile(cfg.template)
		if err != nil {
			return nil, fmt.Errorf("overlay: load template %q: %w", cfg.template, err)
		}
		e.tmpl = tmpl
	}
	return e, nil
}

// Dir returns the output directory.
func (e *Exporter) Dir() string { return e.dir }

// Entries resolves the screen's overlay files against doc. Missing values and
// values that are neither strings nor integers export as empty text.
func (e *Exporter) Entries(doc map[string]any) []Entry {
	entries := make([]Entry, 0, len(e.screen.Overlay))
	for _, file := range e.screen.Overlay {
		text, _ := document.Get(doc, file.Path).Text()
		entries = append(entries, Entry{
			File:  file.File,
			Path:  file.Path,
			Label: labelFor(file.File),
			Value: plainText(text),
		})
	}
	return entries
}

// Export writes every overlay file whose content changed, then the page.
// A nil document exports nothing. Failures are joined; one bad file does not
// stop the others.
func (e *Exporter) Export(doc map[string]any) error {
	if doc == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.fs.MkdirAll(e.dir, 0o755); err != nil {
		return fmt.Errorf("overlay: create %s: %w", e.dir, err)
	}

	entries := e.Entries(doc)
	var errs []error
	changed := 0
	for _, entry := range entries {
		wrote, err := e.writeIfChanged(entry.File, entry.Value)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if wrote {
			changed++
		}
	}

	if e.tmpl != nil {
		html, err := e.render(entries)
		if err != nil {
			errs = append(errs, err)
		} else if _, err := e.writeIfChanged(e.page, html); err != nil {
			errs = append(errs, err)
		}
	}

	e.logger.Debug("overlay exported",
		zap.String("dir", e.dir),
		zap.Int("files", len(entries)),
		zap.Int("changed", changed))
	return errors.Join(errs...)
}

// Hook adapts Export to a store write hook. Export errors are logged.
func (e *Exporter) Hook() store.WriteHook {
	return func(doc map[string]any) {
		if err := e.Export(doc); err != nil {
			e.logger.Warn("overlay export failed", zap.String("dir", e.dir), zap.Error(err))
		}
	}
}

func (e *Exporter) writeIfChanged(name, content string) (bool, error) {
	target := filepath.Join(e.dir, name)
	last, seen := e.written[name]
	if !seen {
		if data, err := e.fs.ReadFile(target); err == nil {
			last, seen = string(data), true
		}
	}
	if seen && last == content {
		e.written[name] = content
		return false, nil
	}
	if err := e.fs.WriteFile(target, []byte(content), 0o644); err != nil {
		delete(e.written, name)
		return false, fmt.Errorf("overlay: write %s: %w", target, err)
	}
	e.written[name] = content
	return true, nil
}

func (e *Exporter) render(entries []Entry) (string, error) {
	items := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		items = append(items, map[string]any{
			"file":  entry.File,
			"path":  entry.Path,
			"label": entry.Label,
			"value": entry.Value,
		})
	}
	title := e.screen.Title
	if title == "" {
		title = e.screen.ID
	}

	var buf bytes.Buffer
	err := e.tmpl.ExecuteWriter(pongo2.Context{
		"title":   title,
		"screen":  e.screen.ID,
		"refresh": e.refresh,
		"items":   items,
	}, &buf)
	if err != nil {
		return "", fmt.Errorf("overlay: render page: %w", err)
	}
	return buf.String(), nil
}

// labelFor turns "LeftCommandPoints.txt" into "Left Command Points".
func labelFor(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	var b strings.Builder
	prev := rune(0)
	for i, r := range base {
		switch {
		case r == '_' || r == '-':
			b.WriteByte(' ')
			prev = ' '
			continue
		case i > 0 && isUpper(r) && prev != ' ' && !isUpper(prev):
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
