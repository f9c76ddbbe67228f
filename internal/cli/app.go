package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/adapters/file"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/aretw0/turing/pkg/session"
)

// App bundles what commands need: a loaded simulator, its logger and metrics.
type App struct {
	Config  Config
	Sim     *turing.Simulator
	Logger  *slog.Logger
	Metrics *observability.Metrics

	closers []io.Closer
}

// NewApp builds the logger, metrics and simulator for cfg.
// Logs go to stderr and, with cfg.LogFile, to that file as JSON.
func NewApp(cfg Config, stderr io.Writer) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	opts := logging.Options{Writer: stderr}
	if cfg.LogFile != "" {
		f, err := logging.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, f)
		opts.File = f
	}
	app.Logger = logging.New(level, opts)

	app.Metrics = observability.NewMetrics()
	hooks := app.Metrics.Hooks()
	if cfg.Debug {
		hooks = domain.ChainHooks(hooks, observability.LogHooks(app.Logger))
	}

	app.Sim, err = turing.Open(cfg.Dir,
		turing.WithLogger(app.Logger),
		turing.WithLifecycleHooks(hooks),
	)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing simulator: %w", err)
	}
	return app, nil
}

// Sessions builds a session manager on the configured store:
// redis when RedisAddr is set, a directory when SessionDir is set, memory otherwise.
func (a *App) Sessions(ctx context.Context) (*session.Manager, error) {
	var (
		store ports.RunStore
		opts  = []session.Option{session.WithLogger(a.Logger)}
	)

	switch {
	case a.Config.RedisAddr != "":
		rs := redis.New(a.Config.RedisAddr, "", 0)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis at %s unreachable: %w", a.Config.RedisAddr, err)
		}
		a.closers = append(a.closers, rs)
		store = rs
		opts = append(opts, session.WithLocker(redis.NewLocker(rs.Client(), rs.Prefix())))
		a.Logger.Info("Using redis session store", "addr", a.Config.RedisAddr)
	case a.Config.SessionDir != "":
		store = file.NewStore(a.Config.SessionDir)
		a.Logger.Info("Using file session store", "dir", a.Config.SessionDir)
	default:
		store = memory.NewStore()
	}

	return session.NewManager(store, a.Sim, opts...), nil
}

// Close releases the log file and store connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}
