// Package config loads and saves the tool configuration from the user's
// home directory (~/.uat/config.yaml). Environment variables override the
// file: UAT_DB_PATH for the database location, UAT_ACTOR for the acting
// user stamped on mutations.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file loaded from the config directory.
const ConfigFileName = "config.yaml"

// Config holds the tool configuration.
type Config struct {
	// DBPath is the SQLite database file location.
	DBPath string `yaml:"db_path"`
	// Actor is the user name stamped on mutations when no explicit actor
	// is given.
	Actor string `yaml:"actor"`
	// TestMode drops and recreates the schema on Initialize.
	TestMode bool `yaml:"test_mode"`
	// SeedReferenceData loads the global lookup tables on Initialize.
	SeedReferenceData bool `yaml:"seed_reference_data"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`
}

// DefaultDir returns the default config directory, ~/.uat.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".uat"), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{
		Actor:             "unknown",
		SeedReferenceData: true,
		LogLevel:          "info",
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		cfg.Actor = u.Username
	}
	if dir, err := DefaultDir(); err == nil {
		cfg.DBPath = filepath.Join(dir, "uat.db")
	}
	return cfg
}

// Load reads the config file from dir, falling back to defaults when the
// file is absent, then applies environment overrides.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	switch {
	case os.IsNotExist(err):
		// Defaults stand.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := os.Getenv("UAT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("UAT_ACTOR"); v != "" {
		cfg.Actor = v
	}
	return cfg, nil
}

// Save writes the config file to dir, creating the directory if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
