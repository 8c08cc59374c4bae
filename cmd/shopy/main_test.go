package main

import (
	"testing"
	"time"

	"github.com/shopyhq/shopy/internal/app"
)

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func TestReadConfigFromEnv_Defaults(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(nil))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}

	if cfg != app.DefaultConfig() {
		t.Fatalf("expected default config, got %#v", cfg)
	}
}

func TestReadConfigFromEnv_ValidOverrides(t *testing.T) {
	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envAPIBaseURL:  " https://shopy.example.com ",
		envMetricsAddr: "localhost:9091",
		envSessionFile: "/tmp/shopy-session.json",
		envHTTPTimeout: "30s",
	}))

	if len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %d", len(warnings))
	}

	if cfg.APIBaseURL != "https://shopy.example.com" {
		t.Fatalf("unexpected api url: %s", cfg.APIBaseURL)
	}
	if cfg.MetricsAddr != "localhost:9091" {
		t.Fatalf("unexpected metrics addr: %s", cfg.MetricsAddr)
	}
	if cfg.SessionFile != "/tmp/shopy-session.json" {
		t.Fatalf("unexpected session file: %s", cfg.SessionFile)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected http timeout: %s", cfg.HTTPTimeout)
	}
}

func TestReadConfigFromEnv_InvalidValuesFallbackToDefaults(t *testing.T) {
	defaultCfg := app.DefaultConfig()

	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envAPIBaseURL:  "   ",
		envHTTPTimeout: "-5s",
	}))

	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(warnings))
	}

	if cfg.APIBaseURL != defaultCfg.APIBaseURL {
		t.Fatal("expected APIBaseURL to keep default on empty value")
	}
	if cfg.HTTPTimeout != defaultCfg.HTTPTimeout {
		t.Fatal("expected HTTPTimeout to keep default on invalid value")
	}
}

func TestReadConfigFromEnv_MalformedDuration(t *testing.T) {
	defaultCfg := app.DefaultConfig()

	cfg, warnings := readConfigFromEnv(mapLookup(map[string]string{
		envHTTPTimeout: "fast",
	}))

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if cfg.HTTPTimeout != defaultCfg.HTTPTimeout {
		t.Fatal("expected HTTPTimeout to keep default on malformed value")
	}
}
