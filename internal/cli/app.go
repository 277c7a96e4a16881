package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"vila-timesheet/internal/config"
	"vila-timesheet/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// Command represents a CLI command handler
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// App represents the CLI application: the wired services and where output goes
type App struct {
	services *services.ServiceContainer
	config   *config.Config
	out      io.Writer
	logger   *slog.Logger
	closers  []func() error
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(container *services.ServiceContainer, cfg *config.Config, out io.Writer, logger *slog.Logger) *App {
	return &App{
		services: container,
		config:   cfg,
		out:      out,
		logger:   logger,
	}
}

// OnClose registers a function run by Close
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close releases the store and ledger, in reverse order of registration
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// AppBuilder constructs the App for a loaded configuration
type AppBuilder func(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (*App, error)

// BuildApp opens the configured store and ledger and wires the services
func BuildApp(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) (*App, error) {
	location, err := cfg.GetLocation()
	if err != nil {
		return nil, err
	}

	st, closeStore, err := config.CreateStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	ledger, err := config.CreateLedger(ctx, cfg)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	container := services.NewServiceContainer(services.Dependencies{
		Store:           st,
		Layout:          cfg.Layout,
		Ledger:          ledger,
		ManagerPassword: cfg.Auth.ManagerPassword,
		Now:             timeNow,
		Location:        location,
		Logger:          logger,
	})

	app := NewApp(container, cfg, out, logger)
	app.OnClose(closeStore)
	if ledger != nil {
		app.OnClose(ledger.Close)
	}
	return app, nil
}
