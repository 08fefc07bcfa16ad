package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the QueryScope console.
type Config struct {
	Port      int             `mapstructure:"port"`
	Version   string          `mapstructure:"version"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Session   SessionConfig   `mapstructure:"session"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

type AnalysisConfig struct {
	// Endpoint receives POST {sql, run_in_sandbox}.
	Endpoint string `mapstructure:"endpoint"`
	// SchemaEndpoint defaults to /analyze-schema on Endpoint's host.
	SchemaEndpoint string `mapstructure:"schema_endpoint"`
	// Timeout bounds each call; zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
}

type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	IdleTTL       time.Duration `mapstructure:"idle_ttl"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

type TelemetryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// env maps configuration keys to the environment variables that set them.
var env = map[string]string{
	"port":                     "QUERYSCOPE_PORT",
	"version":                  "QUERYSCOPE_VERSION",
	"analysis.endpoint":        "QUERYSCOPE_ANALYSIS_ENDPOINT",
	"analysis.schema_endpoint": "QUERYSCOPE_SCHEMA_ENDPOINT",
	"analysis.timeout":         "QUERYSCOPE_ANALYSIS_TIMEOUT",
	"session.cookie_name":      "QUERYSCOPE_SESSION_COOKIE",
	"session.idle_ttl":         "QUERYSCOPE_SESSION_IDLE_TTL",
	"session.sweep_schedule":   "QUERYSCOPE_SESSION_SWEEP",
	"telemetry.enabled":        "OTEL_ENABLED",
	"telemetry.otlp_endpoint":  "OTEL_EXPORTER_OTLP_ENDPOINT",
	"telemetry.service_name":   "OTEL_SERVICE_NAME",
	"log.level":                "QUERYSCOPE_LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("version", "0.1.0")

	v.SetDefault("analysis.endpoint", "http://127.0.0.1:8000/analyze")
	v.SetDefault("analysis.schema_endpoint", "")
	v.SetDefault("analysis.timeout", "0s")

	v.SetDefault("session.cookie_name", "queryscope_session")
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.sweep_schedule", "@every 5m")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4317")
	v.SetDefault("telemetry.service_name", "queryscope-console")

	v.SetDefault("log.level", "info")
}

// Load reads configuration from defaults, the optional file named by
// QUERYSCOPE_CONFIG, and environment variables, in increasing precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, name := range env {
		if err := v.BindEnv(key, name); err != nil {
			return nil, fmt.Errorf("bind %s: %w", name, err)
		}
	}

	if err := v.BindEnv("config_file", "QUERYSCOPE_CONFIG"); err != nil {
		return nil, fmt.Errorf("bind QUERYSCOPE_CONFIG: %w", err)
	}
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Analysis.Endpoint == "" {
		return nil, fmt.Errorf("analysis endpoint cannot be empty")
	}
	return cfg, nil
}
