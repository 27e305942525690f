package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	scorecontrol "github.com/goliatone/go-scorecontrol"
	"github.com/goliatone/go-scorecontrol/pkg/autosave"
	"github.com/goliatone/go-scorecontrol/pkg/records"
	"github.com/goliatone/go-scorecontrol/pkg/renderers/tui"
)

func main() {
	file := flag.String("file", "", "scoreboard JSON document to edit")
	game := flag.String("game", "aos", "screen to show (40k, aos or an id from -screens)")
	screens := flag.String("screens", "", "directory of screen definitions (JSON or YAML) used instead of the built-in screens")
	interval := flag.Duration("interval", autosave.DefaultInterval, "autosave interval")
	overlayDir := flag.String("overlay-dir", "", "directory for overlay text files (disabled if empty)")
	logFile := flag.String("log", "", "log file (logging disabled if empty)")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	if strings.TrimSpace(*file) == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := newLogger(*logFile, *debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, config{
		file:       *file,
		game:       *game,
		screens:    *screens,
		interval:   *interval,
		overlayDir: *overlayDir,
	}); err != nil {
		logger.Error("scorecontrol failed", zap.Error(err))
		log.Fatalf("scorecontrol: %v", err)
	}
}

type config struct {
	file       string
	game       string
	screens    string
	interval   time.Duration
	overlayDir string
}

func run(ctx context.Context, logger *zap.Logger, cfg config) error {
	opts := []scorecontrol.Option{scorecontrol.WithLogger(logger)}
	if strings.TrimSpace(cfg.screens) != "" {
		opts = append(opts, scorecontrol.WithScreens(os.DirFS(cfg.screens)))
	}
	if cfg.overlayDir != "" {
		opts = append(opts, scorecontrol.WithOverlay(cfg.overlayDir))
	}

	// The board is built before the runner exists; deletes reach the runner
	// through this closure once it is assigned.
	var runner *tui.Runner
	opts = append(opts, scorecontrol.WithConfirmer(records.ConfirmFunc(func(ctx context.Context, prompt string) (bool, error) {
		return runner.Confirm(ctx, prompt)
	})))

	app, err := scorecontrol.Open(cfg.file, cfg.game, opts...)
	if err != nil {
		return err
	}
	if !app.Store().IsValid() {
		fmt.Printf("%s is missing or is not a JSON object; editing stays disabled until it is reloaded.\n", cfg.file)
	}

	sess := app.Session()
	runner, err = tui.New(
		tui.WithLocker(sess),
		tui.WithSave(sess.Save),
		tui.WithReload(sess.Reload),
		tui.WithTheme(tui.Theme{ErrorPrefix: "error: "}),
		tui.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	saveCtx, cancelSave := context.WithCancel(ctx)
	saved := make(chan error, 1)
	go func() {
		saved <- app.Autosave(saveCtx, cfg.interval)
	}()

	runErr := runner.Run(ctx, app.Board())
	cancelSave()
	saveErr := <-saved

	if errors.Is(runErr, tui.ErrAborted) || errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	return errors.Join(runErr, saveErr)
}

func newLogger(path string, debug bool) (*zap.Logger, error) {
	if strings.TrimSpace(path) == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
