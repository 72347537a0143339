// Package config provides configuration management for runcheck.
// Values come from built-in defaults, then an optional YAML file, then
// RUNCHECK_* environment variables, with later sources taking precedence.
// The default file lives under the XDG config directory.
package config

import (
	"path/filepath"
	"time"
)

// Config represents the application configuration.
type Config struct {
	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFile   string `yaml:"log_file"`
	LogFormat string `yaml:"log_format"`
	Verbose   bool   `yaml:"verbose"`
	Quiet     bool   `yaml:"quiet"`
	NoColor   bool   `yaml:"no_color"`

	ConfigDir string `yaml:"config_dir"`

	// Command execution
	CommandTimeout time.Duration `yaml:"command_timeout"`
	Shell          string        `yaml:"shell"`
	WorkDir        string        `yaml:"work_dir"`

	// Suite runs
	ReportFormat string `yaml:"report_format"`
	FailFast     bool   `yaml:"fail_fast"`
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.ConfigDir, "config.yaml")
}

// IsVerbose returns true if verbose output is enabled and quiet is not.
func (c *Config) IsVerbose() bool {
	return c.Verbose && !c.Quiet
}

// IsSilent returns true if quiet mode is enabled.
func (c *Config) IsSilent() bool {
	return c.Quiet
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
