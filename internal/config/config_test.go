package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.BridgeURL != "http://localhost:3001" {
		t.Errorf("unexpected bridge url: %s", cfg.BridgeURL)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("unexpected cache ttl: %s", cfg.CacheTTL())
	}
	if cfg.PendingTTL() != 2*time.Minute {
		t.Errorf("unexpected pending ttl: %s", cfg.PendingTTL())
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("unexpected max retries: %d", cfg.MaxRetries)
	}
	if cfg.VerifyDelay() != 500*time.Millisecond {
		t.Errorf("unexpected verify delay: %s", cfg.VerifyDelay())
	}
	if cfg.Planner != "rules" {
		t.Errorf("unexpected planner: %s", cfg.Planner)
	}
	if cfg.Speak || cfg.LabelScreenshots {
		t.Error("speech and labeling should default off")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bridge_url: http://localhost:9000
cache_ttl_sec: 60
max_retries: 5
planner: openai
openai_model: gpt-4o
speak: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BridgeURL != "http://localhost:9000" {
		t.Errorf("unexpected bridge url: %s", cfg.BridgeURL)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("unexpected cache ttl: %s", cfg.CacheTTL())
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("unexpected max retries: %d", cfg.MaxRetries)
	}
	if cfg.Planner != "openai" || cfg.OpenAIModel != "gpt-4o" {
		t.Errorf("unexpected planner config: %s / %s", cfg.Planner, cfg.OpenAIModel)
	}
	if !cfg.Speak {
		t.Error("expected speak enabled")
	}

	// Fields absent from the file keep their defaults.
	if cfg.PendingTTLSec != 120 {
		t.Errorf("unset field should keep its default, got %d", cfg.PendingTTLSec)
	}
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("an explicitly named missing file should error")
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("bridge_url: [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}
