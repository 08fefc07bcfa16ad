package telemetry_test

import (
	"context"
	"testing"

	"github.com/queryscope/console/internal/config"
	"github.com/queryscope/console/internal/telemetry"
	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := telemetry.Init(config.TelemetryConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}

	fields := otel.GetTextMapPropagator().Fields()
	found := false
	for _, f := range fields {
		if f == "traceparent" {
			found = true
		}
	}
	if !found {
		t.Errorf("propagator fields = %v, want traceparent", fields)
	}
}
