package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application name used for directory paths.
	AppName = "runcheck"

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default console log format.
	DefaultLogFormat = "text"

	// DefaultCommandTimeout bounds a single command. Provisioning runs are slow.
	DefaultCommandTimeout = 10 * time.Minute

	// DefaultShell interprets "run:" command lines.
	DefaultShell = "/bin/sh"

	// DefaultReportFormat is the default suite report format.
	DefaultReportFormat = "text"
)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
		ConfigDir:      defaultConfigDir(),
		CommandTimeout: DefaultCommandTimeout,
		Shell:          DefaultShell,
		ReportFormat:   DefaultReportFormat,
	}
}

// defaultConfigDir returns the XDG config directory for runcheck.
// Falls back to ~/.config/runcheck if XDG_CONFIG_HOME is not set.
func defaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

// GetConfigDir returns the configuration directory, respecting XDG.
func GetConfigDir() string {
	return defaultConfigDir()
}
