// Package app implements the application layer for lull.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports"
	"go.trai.ch/lull/internal/engine/ledger"
	"go.trai.ch/lull/internal/engine/normalizer"
	"go.trai.ch/lull/internal/engine/session"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	settings ports.SettingsStore
	source   ports.EventSource
	scanner  ports.Scanner
	history  ports.SessionHistory
	hook     ports.HookFactory
	reporter ports.Reporter
	logger   ports.Logger
	tracer   ports.Tracer
	health   ports.Health
}

// New creates a new App instance. History, hook and health may be nil.
func New(
	settings ports.SettingsStore,
	source ports.EventSource,
	scanner ports.Scanner,
	history ports.SessionHistory,
	hook ports.HookFactory,
	reporter ports.Reporter,
	log ports.Logger,
	tracer ports.Tracer,
	health ports.Health,
) *App {
	return &App{
		settings: settings,
		source:   source,
		scanner:  scanner,
		history:  history,
		hook:     hook,
		reporter: reporter,
		logger:   log,
		tracer:   tracer,
		health:   health,
	}
}

// WatchOptions are command line overrides of the persisted settings.
// Zero values keep the persisted value.
type WatchOptions struct {
	Root           string
	Quiescence     time.Duration
	IncludeDeletes bool
	FlushOnExit    bool
	LogJSON        bool
}

// jsonSwitcher is implemented by loggers that can switch to JSON output.
type jsonSwitcher interface {
	SetJSON(enable bool)
}

// Watch watches the configured root until ctx is done.
// It returns domain.ErrInvalidRootPath when the root cannot be watched; every other
// failure during the run is logged and the run continues.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	settings, err := a.resolveSettings(opts)
	if err != nil {
		return err
	}

	if settings.LogJSON {
		if switcher, ok := a.logger.(jsonSwitcher); ok {
			switcher.SetJSON(true)
		}
	}

	root, err := ValidateRoot(settings.Root)
	if err != nil {
		return err
	}

	led := ledger.New(settings.RenameTracking)
	tracked, err := a.scanner.Count(ctx, root)
	if err != nil {
		a.logger.Error(errors.Join(domain.ErrRescanFailed, zerr.With(err, "root", root)))
	}
	led.SetTrackedCount(tracked)
	a.reporter.OnStartup(root, tracked)

	trigger := session.NewTrigger(session.TriggerConfig{
		Ledger:   led,
		Scorer:   a.scorers(root),
		Scanner:  a.scanner,
		Reporter: a.reporter,
		Logger:   a.logger,
		Tracer:   a.tracer,
		Root:     root,
	})

	// Settlements outlive ctx so a flush on exit can still score.
	settleCtx := context.WithoutCancel(ctx)
	coordinator := session.NewCoordinator(settings.Quiescence, func() {
		trigger.Settle(settleCtx)
	})

	norm := normalizer.New(normalizer.Config{
		Ledger:         led,
		Activity:       coordinator,
		Reporter:       a.reporter,
		Logger:         a.logger,
		IncludeDeletes: settings.IncludeDeletes,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.source.Start(runCtx, root); err != nil {
		a.closeHistory()
		return err
	}

	a.logger.Info(fmt.Sprintf("watching %s, settling after %s of quiet", root, settings.Quiescence))

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		if err := norm.Run(gctx, a.source); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if err := a.source.Stop(); err != nil {
			a.logger.Error(zerr.Wrap(err, "failed to stop notification source"))
		}
		return nil
	})

	if a.health != nil && settings.HealthSocket != "" {
		a.health.SetServing(true)
		g.Go(func() error {
			if err := a.health.Serve(gctx, settings.HealthSocket); err != nil {
				a.logger.Error(err)
			}
			return nil
		})
	}

	runErr := g.Wait()

	if a.health != nil && settings.HealthSocket != "" {
		a.health.SetServing(false)
	}
	norm.Close()
	coordinator.Close(settings.FlushOnExit)
	a.closeHistory()

	a.logger.Info("stopped watching")
	return runErr
}

// resolveSettings loads the persisted settings and applies the overrides.
func (a *App) resolveSettings(opts WatchOptions) (*domain.Settings, error) {
	settings, err := a.settings.Load()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load settings")
	}

	if opts.Root != "" {
		settings.Root = opts.Root
	}
	if opts.Quiescence > 0 {
		settings.Quiescence = opts.Quiescence
	}
	settings.IncludeDeletes = settings.IncludeDeletes || opts.IncludeDeletes
	settings.FlushOnExit = settings.FlushOnExit || opts.FlushOnExit
	settings.LogJSON = settings.LogJSON || opts.LogJSON

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// scorers assembles the scorers of one run.
func (a *App) scorers(root string) ports.Scorer {
	var scorers ports.Scorers
	if a.history != nil {
		scorers = append(scorers, a.history)
	}
	if a.hook != nil {
		if hook := a.hook(root); hook != nil {
			scorers = append(scorers, hook)
		}
	}
	return scorers
}

func (a *App) closeHistory() {
	if a.history == nil {
		return
	}
	if err := a.history.Close(); err != nil {
		a.logger.Error(err)
	}
}

// ValidateRoot resolves root to an absolute path and checks that it is a directory.
func ValidateRoot(root string) (string, error) {
	if root == "" {
		return "", zerr.Wrap(domain.ErrInvalidRootPath, "no root configured")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.Join(domain.ErrInvalidRootPath, zerr.With(err, "root", root))
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Join(domain.ErrInvalidRootPath, zerr.With(err, "root", abs))
	}
	if !info.IsDir() {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidRootPath, "not a directory"), "root", abs)
	}
	return abs, nil
}

// SetRoot validates path and persists it as the watched root.
func (a *App) SetRoot(path string) error {
	root, err := ValidateRoot(path)
	if err != nil {
		return err
	}
	if err := a.settings.SetRootPath(root); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("root set to %s in %s", root, a.settings.Path()))
	return nil
}

// Settings returns the persisted settings and the file they live in.
func (a *App) Settings() (*domain.Settings, string, error) {
	settings, err := a.settings.Load()
	if err != nil {
		return nil, a.settings.Path(), err
	}
	return settings, a.settings.Path(), nil
}

// History returns up to limit settled sessions, newest first.
func (a *App) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if a.history == nil {
		return nil, domain.ErrHistoryDisabled
	}
	defer a.closeHistory()

	return a.history.Recent(ctx, limit)
}

// Status probes the health endpoint of a running watcher.
func (a *App) Status(ctx context.Context) (string, error) {
	settings, err := a.settings.Load()
	if err != nil {
		return "", err
	}
	if a.health == nil || settings.HealthSocket == "" {
		return "", zerr.Wrap(domain.ErrInvalidSettings, "no health socket configured")
	}
	return a.health.Probe(ctx, settings.HealthSocket)
}
