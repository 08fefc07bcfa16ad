package api

import (
	"encoding/json"
	"net/http"

	"github.com/queryscope/console/internal/api/handlers"
	"github.com/queryscope/console/internal/api/middleware"
	"github.com/queryscope/console/internal/config"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates the HTTP router with the console page and API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health & info
	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	// Console
	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session.CookieName))
		r.Use(middleware.Telemetry)

		r.Get("/", h.Index)
		r.Post("/run", h.Run)
		r.Post("/clear", h.Clear)
		r.Post("/schema", h.AnalyzeSchema)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/view", h.GetView)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "queryscope-console",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": "queryscope-console",
		})
	}
}
