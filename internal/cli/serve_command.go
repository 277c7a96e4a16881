package cli

import (
	"context"

	"vila-timesheet/internal/api"
	"vila-timesheet/internal/config"
)

// ServeCommand handles the serve command
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Execute runs the HTTP API until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	server, err := api.NewServer(c.app.services, ServerOptions(c.app.config), c.app.logger)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}

// ServerOptions maps the configuration onto the HTTP server options
func ServerOptions(cfg *config.Config) api.Options {
	return api.Options{
		Address:         cfg.Address(),
		AllowedOrigins:  cfg.GetAllowedOrigins(),
		RequestTimeout:  cfg.Server.RequestTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		TokenSecret:     cfg.Auth.TokenSecret,
		TokenTTL:        cfg.Auth.TokenTTL,
	}
}
