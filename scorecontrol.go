package scorecontrol

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-scorecontrol/pkg/board"
	"github.com/goliatone/go-scorecontrol/pkg/layout"
	"github.com/goliatone/go-scorecontrol/pkg/overlay"
	"github.com/goliatone/go-scorecontrol/pkg/records"
	"github.com/goliatone/go-scorecontrol/pkg/session"
	"github.com/goliatone/go-scorecontrol/pkg/store"
)

// ErrUnknownGame is returned by Open when no screen carries the requested id.
var ErrUnknownGame = errors.New("scorecontrol: unknown game")

// Screen aliases layout.Screen for callers that only use the root package.
type Screen = layout.Screen

// Option configures Open.
type Option func(*options)

type options struct {
	logger     *zap.Logger
	screens    fs.FS
	overlayDir string
	overlay    []overlay.Option
	confirmer  records.Confirmer
}

// WithLogger attaches a logger to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithScreens replaces the embedded screen definitions.
func WithScreens(fsys fs.FS) Option {
	return func(o *options) {
		if fsys != nil {
			o.screens = fsys
		}
	}
}

// WithOverlay exports overlay files into dir after every save.
func WithOverlay(dir string, opts ...overlay.Option) Option {
	return func(o *options) {
		o.overlayDir = strings.TrimSpace(dir)
		o.overlay = opts
	}
}

// WithConfirmer sets the delete confirmation used by record lists.
func WithConfirmer(c records.Confirmer) Option {
	return func(o *options) {
		o.confirmer = c
	}
}

// App bundles the store, session and board for one scoreboard file.
type App struct {
	screen   layout.Screen
	store    *store.Store
	session  *session.Session
	board    *board.Board
	exporter *overlay.Exporter
	logger   *zap.Logger
}

// EmbeddedScreens exposes the built-in screen definitions so callers can
// extend them without importing the layout package directly.
func EmbeddedScreens() fs.FS {
	return layout.EmbeddedFS()
}

// Open loads path, builds the board for game and wires reloads and overlay
// export. A missing or malformed file yields a disabled board that becomes
// usable after the session reloads a valid document.
func Open(path, game string, opts ...Option) (*App, error) {
	o := options{
		logger:  zap.NewNop(),
		screens: layout.EmbeddedFS(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&o)
	}

	catalog, err := layout.LoadFS(o.screens)
	if err != nil {
		return nil, err
	}
	screen, ok := catalog.Screen(game)
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownGame, game, strings.Join(catalog.IDs(), ", "))
	}

	st, err := store.New(path, store.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}
	sess, err := session.New(st, session.WithLogger(o.logger))
	if err != nil {
		return nil, err
	}

	app := &App{screen: screen, store: st, session: sess, logger: o.logger}

	boardOpts := []board.Option{board.WithLogger(o.logger)}
	if o.confirmer != nil {
		boardOpts = append(boardOpts, board.WithConfirmer(o.confirmer))
	}
	err = sess.Do(func(doc map[string]any) error {
		b, err := board.New(screen, doc, boardOpts...)
		app.board = b
		return err
	})
	if err != nil {
		return nil, err
	}
	sess.OnReload(app.board.Rebind)

	if o.overlayDir != "" {
		exporter, err := overlay.New(o.overlayDir, screen, append([]overlay.Option{overlay.WithLogger(o.logger)}, o.overlay...)...)
		if err != nil {
			return nil, err
		}
		app.exporter = exporter
		st.OnWrite(exporter.Hook())
		sess.OnReload(func(doc map[string]any) error {
			exporter.Hook()(doc)
			return nil
		})
		if err := sess.Do(exporter.Export); err != nil {
			o.logger.Warn("initial overlay export failed", zap.Error(err))
		}
	}

	o.logger.Info("scoreboard opened",
		zap.String("path", path),
		zap.String("game", screen.ID),
		zap.Bool("valid", st.IsValid()))
	return app, nil
}

// Screen returns the screen in use.
func (a *App) Screen() Screen { return a.screen }

// Store returns the document store.
func (a *App) Store() *store.Store { return a.store }

// Session returns the session guarding the store.
func (a *App) Session() *session.Session { return a.session }

// Board returns the scoreboard editor.
func (a *App) Board() *board.Board { return a.board }

// Exporter returns the overlay exporter, or nil when overlay export is off.
func (a *App) Exporter() *overlay.Exporter { return a.exporter }

// Autosave saves pending edits every interval until ctx is done, then flushes
// once more.
func (a *App) Autosave(ctx context.Context, interval time.Duration) error {
	return a.session.Autosave(ctx, interval)
}
