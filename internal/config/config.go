package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultListenAddr is the address `provreg serve` binds to when the config
// does not say otherwise.
const DefaultListenAddr = "127.0.0.1:7680"

// Config represents the flat provreg configuration.
type Config struct {
	Version    string `json:"version"`
	Identity   string `json:"identity,omitempty"`    // default caller identity
	DBPath     string `json:"db_path,omitempty"`     // overrides ~/.provreg/provreg.db
	ListenAddr string `json:"listen_addr,omitempty"` // serve bind address
}

// LoadConfig reads .provreg/config.json from the specified directory.
// Returns an error if no config is found - callers should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".provreg", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to the directory.
func SaveConfig(dir string, cfg *Config) error {
	cfgDir := filepath.Join(dir, ".provreg")
	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("failed to create .provreg dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfgDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
