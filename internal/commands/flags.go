package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/calm/internal/core/config"
	"github.com/colonyops/calm/internal/core/datekey"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Today overrides the local date key for every command.
	Today string
	// JSON switches command output to JSON.
	JSON bool

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "calm", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "calm")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/calm/calm.log
// On Linux: $XDG_STATE_HOME/calm/calm.log (defaults to ~/.local/state/calm/calm.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "calm", "calm.log")
	}

	home, _ := os.UserHomeDir()
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "calm", "calm.log")
	}
	return filepath.Join(home, ".local", "state", "calm", "calm.log")
}

// GlobalFlags returns the root flags bound to f.
func GlobalFlags(f *Flags) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error, fatal, panic)",
			Sources:     cli.EnvVars("CALM_LOG_LEVEL"),
			Value:       "info",
			Destination: &f.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-file",
			Usage:       "path to log file",
			Sources:     cli.EnvVars("CALM_LOG_FILE"),
			Value:       DefaultLogFile(),
			Destination: &f.LogFile,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "path to config file",
			Sources:     cli.EnvVars("CALM_CONFIG"),
			Value:       DefaultConfigPath(),
			Destination: &f.ConfigPath,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "path to data directory",
			Sources:     cli.EnvVars("CALM_DATA_DIR"),
			Value:       DefaultDataDir(),
			Destination: &f.DataDir,
		},
		&cli.StringFlag{
			Name:        "today",
			Usage:       "treat this YYYY-MM-DD date as today",
			Sources:     cli.EnvVars("CALM_TODAY"),
			Destination: &f.Today,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print JSON instead of tables",
			Destination: &f.JSON,
		},
	}
}

// Now is the clock every command and service runs on. With --today set the
// date is replaced and the wall-clock time of day is kept, so timers still
// advance.
func (f *Flags) Now() time.Time {
	now := time.Now()
	if f.Today == "" {
		return now
	}

	day, err := datekey.StartOf(f.Today)
	if err != nil {
		return now
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.Local)
}

// TodayKey is the date key of Now.
func (f *Flags) TodayKey() string {
	return datekey.FromTime(f.Now())
}

// ValidateToday rejects a malformed --today value.
func (f *Flags) ValidateToday() error {
	if f.Today == "" {
		return nil
	}
	if _, err := datekey.Normalize(f.Today); err != nil {
		return fmt.Errorf("--today: %w", err)
	}
	return nil
}

// Theme is the configured output theme.
func (f *Flags) Theme() string {
	if f.Config == nil {
		return ""
	}
	return f.Config.UI.Theme
}
