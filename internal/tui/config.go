package tui

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"folio/internal/config"
)

// UIConfig holds TUI-specific preferences separate from the CLI config.
// Command-line flags override these per run.
type UIConfig struct {
	DefaultTab string   `yaml:"default_tab,omitempty"`
	Hidden     []string `yaml:"hidden,omitempty"`
}

// ConfigPath returns the path to the TUI config file.
func ConfigPath() string {
	return filepath.Join(config.ConfigDir(), "ui.yaml")
}

// LoadConfig loads the TUI config from disk. A missing file yields defaults.
func LoadConfig() (*UIConfig, error) {
	cfg := &UIConfig{}
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves the TUI config to disk.
func SaveConfig(cfg *UIConfig) error {
	path := ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
