// Package server provides the public entry point for initializing the
// QueryScope console server.
//
// Usage:
//
//	srv, err := server.New(ctx)
//	srv.Start()
//	http.ListenAndServe(":8080", srv.Handler)
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/queryscope/console/internal/api"
	"github.com/queryscope/console/internal/api/handlers"
	"github.com/queryscope/console/internal/client"
	"github.com/queryscope/console/internal/config"
	"github.com/queryscope/console/internal/sessions"
	"github.com/queryscope/console/internal/telemetry"
	"github.com/queryscope/console/internal/ui"

	"github.com/rs/zerolog/log"
)

// Server holds the initialized QueryScope console.
type Server struct {
	// Handler is the HTTP handler with all routes and middleware.
	Handler http.Handler

	// Sessions holds one analysis controller per browser session.
	Sessions *sessions.MemorySessionStore

	// Janitor evicts idle sessions once started.
	Janitor *sessions.Janitor

	// Config is the server configuration.
	Config *config.Config

	// Port is the port the server should listen on.
	Port int

	// ShutdownFunc should be called on graceful shutdown to flush telemetry.
	ShutdownFunc func(context.Context) error
}

// New loads configuration and initializes all console components.
func New(ctx context.Context) (*Server, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig initializes the console with an explicit configuration.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*Server, error) {
	shutdown, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	cl, err := client.New(cfg.Analysis.Endpoint, cfg.Analysis.SchemaEndpoint, cfg.Analysis.Timeout)
	if err != nil {
		shutdown(ctx)
		return nil, fmt.Errorf("init analysis client: %w", err)
	}
	log.Info().
		Str("endpoint", cfg.Analysis.Endpoint).
		Dur("timeout", cfg.Analysis.Timeout).
		Msg("✅ Analysis client initialized")

	store := sessions.NewMemorySessionStore(func() *ui.Controller {
		return ui.NewController(ui.NewView(), cl)
	})

	janitor, err := sessions.NewJanitor(store, cfg.Session.IdleTTL, cfg.Session.SweepSchedule)
	if err != nil {
		shutdown(ctx)
		return nil, fmt.Errorf("init session janitor: %w", err)
	}

	h := handlers.New(store, cfg.Version)
	router := api.NewRouter(cfg, h)

	return &Server{
		Handler:      router,
		Sessions:     store,
		Janitor:      janitor,
		Config:       cfg,
		Port:         cfg.Port,
		ShutdownFunc: shutdown,
	}, nil
}

// Start launches background work.
func (s *Server) Start() {
	s.Janitor.Start()
}

// Stop halts the janitor, waits for in-flight analyses and flushes telemetry.
func (s *Server) Stop(ctx context.Context) error {
	s.Janitor.Stop(ctx)

	done := make(chan struct{})
	go func() {
		s.Sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("Analyses still in flight at shutdown")
	}

	return s.ShutdownFunc(ctx)
}
