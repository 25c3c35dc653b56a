// Package config handles configuration loading and validation for calm.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/calm/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Focus    FocusConfig    `yaml:"focus"`
	Server   ServerConfig   `yaml:"server"`
	UI       UIConfig       `yaml:"ui"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// DatabaseConfig holds SQLite connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"` // milliseconds
}

// FocusConfig holds focus session timer settings.
type FocusConfig struct {
	DefaultSessionMinutes   int           `yaml:"default_session_minutes"`
	DefaultExtensionMinutes int           `yaml:"default_extension_minutes"`
	MaxSessionMinutes       int           `yaml:"max_session_minutes"`
	TickInterval            time.Duration `yaml:"tick_interval"`
}

// ServerConfig holds settings for `calm serve`.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	EventBuffer int    `yaml:"event_buffer"`
}

// UIConfig holds terminal output settings.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
		Focus: FocusConfig{
			DefaultSessionMinutes:   25,
			DefaultExtensionMinutes: 15,
			MaxSessionMinutes:       480,
			TickInterval:            time.Second,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:7531",
			EventBuffer: 64,
		},
		UI: UIConfig{Theme: styles.DefaultTheme},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		case os.IsNotExist(err):
			// not found is fine, using defaults
		default:
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.DataDir = dataDir
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
	}
	if c.Database.BusyTimeout == 0 {
		c.Database.BusyTimeout = defaults.Database.BusyTimeout
	}

	if c.Focus.DefaultSessionMinutes == 0 {
		c.Focus.DefaultSessionMinutes = defaults.Focus.DefaultSessionMinutes
	}
	if c.Focus.DefaultExtensionMinutes == 0 {
		c.Focus.DefaultExtensionMinutes = defaults.Focus.DefaultExtensionMinutes
	}
	if c.Focus.MaxSessionMinutes == 0 {
		c.Focus.MaxSessionMinutes = defaults.Focus.MaxSessionMinutes
	}
	if c.Focus.TickInterval == 0 {
		c.Focus.TickInterval = defaults.Focus.TickInterval
	}

	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.EventBuffer == 0 {
		c.Server.EventBuffer = defaults.Server.EventBuffer
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}
