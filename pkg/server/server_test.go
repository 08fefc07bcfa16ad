package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/queryscope/console/internal/config"
	"github.com/queryscope/console/pkg/server"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:    0,
		Version: "test",
		Analysis: config.AnalysisConfig{
			Endpoint: "http://127.0.0.1:8000/analyze",
		},
		Session: config.SessionConfig{
			CookieName:    "queryscope_session",
			IdleTTL:       time.Minute,
			SweepSchedule: "@every 1m",
		},
	}
}

func TestNewWithConfig(t *testing.T) {
	srv, err := server.NewWithConfig(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	srv.Start()
	defer srv.Stop(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET / status = %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "queryscope_session=") {
		t.Errorf("Set-Cookie = %q, want session cookie", w.Header().Get("Set-Cookie"))
	}
	if srv.Sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", srv.Sessions.Len())
	}
}

func TestNewWithConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad endpoint", func(c *config.Config) { c.Analysis.Endpoint = "not a url" }},
		{"zero ttl", func(c *config.Config) { c.Session.IdleTTL = 0 }},
		{"bad schedule", func(c *config.Config) { c.Session.SweepSchedule = "whenever" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)
			if _, err := server.NewWithConfig(context.Background(), cfg); err == nil {
				t.Error("NewWithConfig succeeded, want error")
			}
		})
	}
}
