package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/queryscope/console/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Analysis.Endpoint != "http://127.0.0.1:8000/analyze" {
		t.Errorf("Analysis.Endpoint = %q", cfg.Analysis.Endpoint)
	}
	if cfg.Analysis.Timeout != 0 {
		t.Errorf("Analysis.Timeout = %v, want no timeout", cfg.Analysis.Timeout)
	}
	if cfg.Session.IdleTTL != 30*time.Minute {
		t.Errorf("Session.IdleTTL = %v, want 30m", cfg.Session.IdleTTL)
	}
	if cfg.Session.CookieName != "queryscope_session" {
		t.Errorf("Session.CookieName = %q", cfg.Session.CookieName)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("QUERYSCOPE_PORT", "9090")
	t.Setenv("QUERYSCOPE_ANALYSIS_ENDPOINT", "http://analysis:8000/analyze")
	t.Setenv("QUERYSCOPE_ANALYSIS_TIMEOUT", "45s")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Analysis.Endpoint != "http://analysis:8000/analyze" {
		t.Errorf("Analysis.Endpoint = %q", cfg.Analysis.Endpoint)
	}
	if cfg.Analysis.Timeout != 45*time.Second {
		t.Errorf("Analysis.Timeout = %v, want 45s", cfg.Analysis.Timeout)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("Telemetry.Enabled = false, want true")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queryscope.yaml")
	content := "analysis:\n  endpoint: http://file:8000/analyze\nsession:\n  idle_ttl: 10m\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUERYSCOPE_CONFIG", path)
	t.Setenv("QUERYSCOPE_SESSION_IDLE_TTL", "5m")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Analysis.Endpoint != "http://file:8000/analyze" {
		t.Errorf("Analysis.Endpoint = %q, want the file value", cfg.Analysis.Endpoint)
	}
	if cfg.Session.IdleTTL != 5*time.Minute {
		t.Errorf("Session.IdleTTL = %v, want env to override the file", cfg.Session.IdleTTL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("QUERYSCOPE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := config.Load(); err == nil {
		t.Error("Load() with a missing config file should fail")
	}
}
