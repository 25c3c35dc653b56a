package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/calm/internal/core/styles"
	"github.com/colonyops/calm/internal/core/validate"
)

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("data_dir", c.DataDir, validate.Required),
		c.validateDatabase(),
		c.validateFocus(),
		c.validateServer(),
		c.validateUI(),
	)
}

// ValidateDeep runs Validate and then checks the config file and data
// directory on disk. An empty configPath skips the config file check.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func (c *Config) validateDatabase() error {
	var errs criterio.FieldErrorsBuilder
	d := c.Database

	if d.MaxOpenConns < 1 {
		errs = errs.Append("database.max_open_conns", fmt.Errorf("must be at least 1, got %d", d.MaxOpenConns))
	}
	if d.MaxIdleConns < 0 {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot be negative, got %d", d.MaxIdleConns))
	}
	if d.MaxIdleConns > d.MaxOpenConns {
		errs = errs.Append("database.max_idle_conns", fmt.Errorf("cannot exceed max_open_conns (%d)", d.MaxOpenConns))
	}
	if d.BusyTimeout < 0 {
		errs = errs.Append("database.busy_timeout", fmt.Errorf("cannot be negative, got %d", d.BusyTimeout))
	}

	return errs.ToError()
}

func (c *Config) validateFocus() error {
	var errs criterio.FieldErrorsBuilder
	f := c.Focus

	if f.MaxSessionMinutes < 1 || f.MaxSessionMinutes > validate.MaxSessionMinutes {
		errs = errs.Append("focus.max_session_minutes",
			fmt.Errorf("must be between 1 and %d, got %d", validate.MaxSessionMinutes, f.MaxSessionMinutes))
	}
	if f.DefaultSessionMinutes < 1 || f.DefaultSessionMinutes > f.MaxSessionMinutes {
		errs = errs.Append("focus.default_session_minutes",
			fmt.Errorf("must be between 1 and max_session_minutes (%d), got %d", f.MaxSessionMinutes, f.DefaultSessionMinutes))
	}
	if f.DefaultExtensionMinutes < 1 || f.DefaultExtensionMinutes > f.MaxSessionMinutes {
		errs = errs.Append("focus.default_extension_minutes",
			fmt.Errorf("must be between 1 and max_session_minutes (%d), got %d", f.MaxSessionMinutes, f.DefaultExtensionMinutes))
	}
	if f.TickInterval < 10*time.Millisecond || f.TickInterval > time.Minute {
		errs = errs.Append("focus.tick_interval", fmt.Errorf("must be between 10ms and 1m, got %s", f.TickInterval))
	}

	return errs.ToError()
}

func (c *Config) validateServer() error {
	var errs criterio.FieldErrorsBuilder

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = errs.Append("server.addr", fmt.Errorf("invalid address %q: %w", c.Server.Addr, err))
	}
	if c.Server.EventBuffer < 1 {
		errs = errs.Append("server.event_buffer", fmt.Errorf("must be at least 1, got %d", c.Server.EventBuffer))
	}

	return errs.ToError()
}

func (c *Config) validateUI() error {
	if _, ok := styles.GetPalette(c.UI.Theme); !ok {
		return criterio.NewFieldErrors("ui.theme",
			fmt.Errorf("unknown theme %q, available: %s", c.UI.Theme, strings.Join(styles.ThemeNames(), ", ")))
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that path is a directory or does not exist yet.
func isDirectoryOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
