// Package config loads engine settings from a YAML file with sensible
// defaults for every field.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all tunables for the engine and its collaborators.
type Config struct {
	BridgeURL        string `yaml:"bridge_url"`         // accessibility bridge endpoint
	BridgeTimeoutSec int    `yaml:"bridge_timeout_sec"` // per-request timeout
	CacheTTLSec      int    `yaml:"cache_ttl_sec"`      // coordinate cache TTL
	PendingTTLSec    int    `yaml:"pending_ttl_sec"`    // pending-confirmation TTL
	MaxRetries       int    `yaml:"max_retries"`        // kernel attempts per command
	VerifyDelayMs    int    `yaml:"verify_delay_ms"`    // settle time before verification
	RetryDelayMs     int    `yaml:"retry_delay_ms"`     // pause between attempts
	Planner          string `yaml:"planner"`            // "rules" or "openai"
	OpenAIModel      string `yaml:"openai_model"`       // model name for the openai planner
	LabelScreenshots bool   `yaml:"label_screenshots"`  // draw element numbers on screenshots
	Speak            bool   `yaml:"speak"`              // voice results through TTS
	LogLevel         string `yaml:"log_level"`          // debug, info, warn, error
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BridgeURL:        "http://localhost:3001",
		BridgeTimeoutSec: 10,
		CacheTTLSec:      300,
		PendingTTLSec:    120,
		MaxRetries:       3,
		VerifyDelayMs:    500,
		RetryDelayMs:     300,
		Planner:          "rules",
		OpenAIModel:      "",
		LabelScreenshots: false,
		Speak:            false,
		LogLevel:         "info",
	}
}

// DefaultPath is the config file looked up when --config is not given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".uipilot.yaml")
}

// Load reads the config file at path, or the default path when path is
// empty. A missing file is not an error: defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// BridgeTimeout returns the bridge timeout as a duration.
func (c Config) BridgeTimeout() time.Duration {
	return time.Duration(c.BridgeTimeoutSec) * time.Second
}

// CacheTTL returns the coordinate cache TTL as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// PendingTTL returns the pending-confirmation TTL as a duration.
func (c Config) PendingTTL() time.Duration {
	return time.Duration(c.PendingTTLSec) * time.Second
}

// VerifyDelay returns the settle delay as a duration.
func (c Config) VerifyDelay() time.Duration {
	return time.Duration(c.VerifyDelayMs) * time.Millisecond
}

// RetryDelay returns the inter-attempt pause as a duration.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMs) * time.Millisecond
}
