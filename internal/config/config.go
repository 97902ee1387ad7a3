// Package config loads the coderefine configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Defaults DefaultsConfig `yaml:"defaults"`
	History  HistoryConfig  `yaml:"history"`
}

type ServiceConfig struct {
	// BaseURL is the analysis service of record.
	BaseURL string `yaml:"base_url"`
	// BridgeURL is the optional local bridge, probed for the hybrid /
	// cloud-only label only.
	BridgeURL      string `yaml:"bridge_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type DefaultsConfig struct {
	Language string `yaml:"language"`
	Provider string `yaml:"provider"`
	Mode     string `yaml:"mode"`
}

type HistoryConfig struct {
	// Path to the SQLite review database. Empty keeps history in memory
	// only.
	Path string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:        "https://api.coderefine.dev",
			BridgeURL:      "http://127.0.0.1:8000",
			TimeoutSeconds: 60,
		},
		Defaults: DefaultsConfig{
			Language: "Auto-detect",
			Provider: "gemini",
			Mode:     "strict",
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "coderefine", "config.yaml")
}

// Load reads the config at path, filling unset fields with defaults. A
// missing file is not an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	d := Default()
	if cfg.Service.BaseURL == "" {
		cfg.Service.BaseURL = d.Service.BaseURL
	}
	if cfg.Service.BridgeURL == "" {
		cfg.Service.BridgeURL = d.Service.BridgeURL
	}
	if cfg.Service.TimeoutSeconds <= 0 {
		cfg.Service.TimeoutSeconds = d.Service.TimeoutSeconds
	}
	if cfg.Defaults.Language == "" {
		cfg.Defaults.Language = d.Defaults.Language
	}
	if cfg.Defaults.Provider == "" {
		cfg.Defaults.Provider = d.Defaults.Provider
	}
	if cfg.Defaults.Mode == "" {
		cfg.Defaults.Mode = d.Defaults.Mode
	}

	return cfg, nil
}
