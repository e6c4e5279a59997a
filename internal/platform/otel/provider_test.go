package otel

import (
	"context"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.Enabled || cfg.SampleRatio != 1 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.active() {
		t.Fatal("expected no exporter without an endpoint")
	}
}

func TestLoadConfigRejectsRatioOutOfRange(t *testing.T) {
	t.Setenv("WAYPOINT_OTEL_SAMPLE_RATIO", "1.5")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for ratio above 1")
	}
}

func TestSetupNoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("WAYPOINT_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("WAYPOINT_OTEL_ENABLED", "false")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupWithConfigCreatesProvider(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
	}{
		{name: "always", ratio: 1},
		{name: "ratio", ratio: 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Non-routable address so nothing is exported.
			cfg := Config{Enabled: true, Endpoint: "http://192.0.2.1:4318", SampleRatio: tc.ratio}
			shutdown, err := SetupWithConfig(context.Background(), "engine-test", cfg)
			if err != nil {
				t.Fatalf("setup: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("shutdown: %v", err)
			}
		})
	}
}
