// QueryScope console: a browser front end for a SQL analysis service.
//
// It provides:
//   - A query form that posts to the analysis service
//   - Per-session rendering of summary, optimization, cost, schema and
//     data quality findings
//   - A schema overview of the connected database
//   - Idle session eviction on a cron schedule

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/queryscope/console/pkg/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("🔍 QueryScope console starting...")

	ctx := context.Background()
	srv, err := server.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	level, err := zerolog.ParseLevel(srv.Config.Log.Level)
	if err != nil {
		log.Warn().Str("level", srv.Config.Log.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	srv.Start()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.Port),
		Handler:      srv.Handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	idle := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("🛑 Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP shutdown incomplete")
		}
		if err := srv.Stop(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("Telemetry flush failed")
		}
		close(idle)
	}()

	log.Info().
		Int("port", srv.Port).
		Str("analysis", srv.Config.Analysis.Endpoint).
		Msg("🚀 QueryScope console is ready")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
	<-idle
}
