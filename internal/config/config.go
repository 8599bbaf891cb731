// Package config loads and saves the CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the config file is missing or partial.
const (
	DefaultQuoteBaseURL        = "https://eodhd.com"
	DefaultQuoteTimeoutSeconds = 5
	DefaultBaseline            = BaselineStored
)

// Performance baseline modes.
const (
	// BaselineStored compares against the latest total recorded on a
	// previous day in the snapshot history.
	BaselineStored = "stored"
	// BaselineSession resets the baseline to the first valuation of the run.
	BaselineSession = "session"
)

// Config holds the CLI configuration.
type Config struct {
	QuoteBaseURL        string `yaml:"quote_base_url"`
	QuoteTimeoutSeconds int    `yaml:"quote_timeout_seconds"`
	PerformanceBaseline string `yaml:"performance_baseline"`
}

// QuoteTimeout returns the per-symbol fetch timeout.
func (c *Config) QuoteTimeout() time.Duration {
	return time.Duration(c.QuoteTimeoutSeconds) * time.Second
}

// ConfigDir returns the configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config/folio.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "folio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "folio")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// CachePath returns the path to the local quote cache file.
func CachePath() string {
	return filepath.Join(ConfigDir(), "quotes.json")
}

// SnapshotsPath returns the path to the performance snapshot history file.
func SnapshotsPath() string {
	return filepath.Join(ConfigDir(), "snapshots.json")
}

// Load reads the config from the given path. A missing file returns defaults;
// missing fields are filled with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.QuoteBaseURL == "" {
		cfg.QuoteBaseURL = DefaultQuoteBaseURL
	}
	if cfg.QuoteTimeoutSeconds <= 0 {
		cfg.QuoteTimeoutSeconds = DefaultQuoteTimeoutSeconds
	}
	if cfg.PerformanceBaseline == "" {
		cfg.PerformanceBaseline = DefaultBaseline
	}
	if cfg.PerformanceBaseline != BaselineStored && cfg.PerformanceBaseline != BaselineSession {
		return nil, fmt.Errorf("invalid performance_baseline %q (want %q or %q)", cfg.PerformanceBaseline, BaselineStored, BaselineSession)
	}

	return cfg, nil
}

// Save writes the config to the given path. Creates parent directories if
// needed with 0700 permissions; the file is written with 0600 permissions.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
