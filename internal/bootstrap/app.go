package bootstrap

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"dnclient/internal/core"
	"dnclient/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// App holds the core dependencies shared by all runners.
type App struct {
	Cfg    *Config
	Logger core.ILogger
}

// NewApp bootstraps configuration and logging for an entrypoint.
func NewApp(configPath string) (*App, error) {
	// 1. Bootstrap logger until the configured level is known
	bootLogger, err := logging.NewZapLogger("INFO")
	if err != nil {
		return nil, err
	}

	// 2. Load Configuration (falls back to defaults when the file is absent)
	cfg := LoadConfigOrDefault(configPath, bootLogger)

	// 3. Re-initialize the logger at the configured level
	logger, err := InitLogger(cfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Cfg:    cfg,
		Logger: logger,
	}, nil
}

// Runner is an interface for components that can be run and stopped gracefully.
type Runner interface {
	Run(ctx context.Context) error
}

// Run orchestrates the application lifecycle, including signal handling.
func (a *App) Run(runners ...Runner) error {
	// Context is canceled on the first termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	a.Logger.Info("Starting application")

	for _, runner := range runners {
		r := runner
		g.Go(func() error {
			return r.Run(ctx)
		})
	}

	// The first runner error cancels the group context and unwinds the
	// rest; a signal cancels the same context, so both paths drain here.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error("Application stopped with error", "error", err)
		return err
	}

	a.Logger.Info("Application shut down gracefully")
	return nil
}
