// Package api serves the timesheet over a small JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"vila-timesheet/internal/logging"
	"vila-timesheet/internal/services"
	"vila-timesheet/internal/validation"
)

// ServiceName and Version are reported by GET /.
const (
	ServiceName = "Vila Acadia Timesheet API"
	Version     = "1.0.0"
)

// Options configures the HTTP server.
type Options struct {
	Address         string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	TokenSecret     string
	TokenTTL        time.Duration
	// Now is used when issuing tokens. Defaults to time.Now.
	Now func() time.Time
}

// Server exposes the services over HTTP.
type Server struct {
	services  *services.ServiceContainer
	opts      Options
	tokens    *TokenIssuer
	validator *validation.RequestValidator
	logger    *slog.Logger
}

// NewServer creates a Server over the given services.
func NewServer(container *services.ServiceContainer, opts Options, logger *slog.Logger) (*Server, error) {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 12 * time.Hour
	}
	logger = logging.OrDiscard(logger)
	if opts.TokenSecret == "" {
		logger.Warn("no token secret configured, manager tokens will not survive a restart")
	}

	tokens, err := NewTokenIssuer(opts.TokenSecret, opts.TokenTTL, opts.Now)
	if err != nil {
		return nil, err
	}

	return &Server{
		services:  container,
		opts:      opts,
		tokens:    tokens,
		validator: validation.NewRequestValidator(),
		logger:    logger,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /auth/verify", s.verifyEmployee)
	mux.HandleFunc("POST /manager/auth", s.managerAuth)
	mux.HandleFunc("POST /submit-hours", s.submitHours)
	mux.Handle("POST /manager/submit-daily-tip", Chain(http.HandlerFunc(s.submitDailyTip), s.tokens.Verifier(), RequireManager))
	mux.HandleFunc("GET /periods/{date}", s.periodStatus)

	return Chain(
		mux,
		RequestID,
		Logging(s.logger),
		SecurityHeaders,
		CORS(s.opts.AllowedOrigins),
		Timeout(s.opts.RequestTimeout),
	)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.opts.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "address", s.opts.Address)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down api")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
