// Package config handles global plume configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global plume configuration.
type Config struct {
	// Database is the path to the SQLite database file.
	Database string `toml:"database"`

	// PageSize is the default listing page size.
	PageSize int `toml:"page_size"`

	// Load names the eager-load categories attached to listings. Empty
	// means all of them.
	Load []string `toml:"load"`

	// Image configures how main images are resolved during eager loading.
	Image ImageConfig `toml:"image"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// ImageConfig selects the main-image resolution strategy.
type ImageConfig struct {
	// Strategy is "field" (a custom field holds the media path) or
	// "unit" (the entry's designated primary unit is resolved).
	Strategy string `toml:"strategy"`

	// FieldKey is the field key the field strategy reads.
	FieldKey string `toml:"field_key"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output.
	// Supported values are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: "plume.db",
		PageSize: 20,
		Image:    ImageConfig{Strategy: "unit"},
	}
}

// Load loads the configuration from the default location.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path. Missing keys
// keep their defaults.
func LoadFrom(path string) (*Config, error) {
	config := Default()
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

// DefaultPath returns the default config file path.
// A plume.toml in the working directory wins; otherwise the XDG-style
// ~/.config/plume/config.toml.
func DefaultPath() string {
	if _, err := os.Stat("plume.toml"); err == nil {
		return "plume.toml"
	}

	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "plume", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "plume", "config.toml")
	}

	return filepath.Join(".", "config.toml")
}
