// Package config loads framecheck configuration from
// .framecheck/config.yaml, merging file values over built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryConfig represents run-history storage configuration
type HistoryConfig struct {
	// Enabled enables recording analysis runs to the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`

	// KeepDays is the number of days of history retained by `history clear`
	KeepDays int `yaml:"keep_days"`
}

// Config represents framecheck configuration options
type Config struct {
	// DefaultPaths are the files analyzed when no arguments are given
	DefaultPaths []string `yaml:"default_paths"`

	// Truncate is the maximum visible characters shown per line in text output
	Truncate int `yaml:"truncate"`

	// Format is the default output format (text, markdown, json)
	Format string `yaml:"format"`

	// History contains run-history configuration
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible default values.
// The default paths mirror the example banner assets the tool was
// written to check.
func DefaultConfig() *Config {
	return &Config{
		DefaultPaths: []string{
			filepath.Join("data", "ansi", "welcome.ans"),
			filepath.Join("data", "ansi", "goodbye.ans"),
		},
		Truncate: 60,
		Format:   "text",
		History: HistoryConfig{
			Enabled:  true,
			DBPath:   filepath.Join(".framecheck", "history.db"),
			KeepDays: 90,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from the file over the defaults
	if len(fileCfg.DefaultPaths) > 0 {
		cfg.DefaultPaths = fileCfg.DefaultPaths
	}
	if fileCfg.Truncate != 0 {
		cfg.Truncate = fileCfg.Truncate
	}
	if fileCfg.Format != "" {
		cfg.Format = fileCfg.Format
	}

	// The history section needs presence checks: `enabled: false` is a
	// legitimate value that plain zero-value merging would drop.
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if historySection, exists := rawMap["history"]; exists && historySection != nil {
			historyMap, _ := historySection.(map[string]interface{})

			if _, exists := historyMap["enabled"]; exists {
				cfg.History.Enabled = fileCfg.History.Enabled
			}
			if _, exists := historyMap["db_path"]; exists {
				cfg.History.DBPath = fileCfg.History.DBPath
			}
			if _, exists := historyMap["keep_days"]; exists {
				cfg.History.KeepDays = fileCfg.History.KeepDays
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .framecheck/config.yaml in
// the specified directory. If the directory or file doesn't exist,
// returns default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".framecheck", "config.yaml")
	return LoadConfig(configPath)
}

// Validate validates the configuration values.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	if c.Truncate <= 0 {
		return fmt.Errorf("truncate must be > 0, got %d", c.Truncate)
	}

	validFormats := map[string]bool{
		"text":     true,
		"markdown": true,
		"json":     true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format %q, must be one of: text, markdown, json", c.Format)
	}

	if c.History.Enabled {
		if c.History.DBPath == "" {
			return fmt.Errorf("history.db_path cannot be empty when history is enabled")
		}
		if c.History.KeepDays < 0 {
			return fmt.Errorf("history.keep_days must be >= 0, got %d", c.History.KeepDays)
		}
	}

	return nil
}
