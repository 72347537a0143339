package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

var (
	validLogFormats    = map[string]bool{"text": true, "logfmt": true, "json": true}
	validReportFormats = map[string]bool{"text": true, "yaml": true}
)

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns all errors found.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error

	if !logging.IsValidLevel(cfg.LogLevel) {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("invalid log level %q: must be one of: debug, info, warn, error", cfg.LogLevel),
		})
	}
	if !validLogFormats[cfg.LogFormat] {
		errs = append(errs, &ValidationError{
			Field:   "log_format",
			Message: fmt.Sprintf("invalid log format %q: must be one of: text, logfmt, json", cfg.LogFormat),
		})
	}
	if !validReportFormats[cfg.ReportFormat] {
		errs = append(errs, &ValidationError{
			Field:   "report_format",
			Message: fmt.Sprintf("invalid report format %q: must be one of: text, yaml", cfg.ReportFormat),
		})
	}

	if cfg.CommandTimeout <= 0 {
		errs = append(errs, &ValidationError{
			Field:   "command_timeout",
			Message: "command timeout must be positive",
		})
	}

	if strings.TrimSpace(cfg.Shell) == "" {
		errs = append(errs, &ValidationError{
			Field:   "shell",
			Message: "shell cannot be empty",
		})
	}

	if cfg.Verbose && cfg.Quiet {
		errs = append(errs, &ValidationError{
			Field:   "verbose/quiet",
			Message: "verbose and quiet cannot both be true",
		})
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				errs = append(errs, &ValidationError{
					Field:   "log_file",
					Message: fmt.Sprintf("directory does not exist: %s", dir),
				})
			}
		}
	}

	if cfg.WorkDir != "" {
		info, err := os.Stat(cfg.WorkDir)
		if err != nil || !info.IsDir() {
			errs = append(errs, &ValidationError{
				Field:   "work_dir",
				Message: fmt.Sprintf("not a directory: %s", cfg.WorkDir),
			})
		}
	}

	return errs
}

// ValidateOrError validates and returns a single Configuration error, or nil.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return errors.New(errors.Configuration, strings.Join(msgs, "; ")).
		WithOp("config.Validate")
}

// IsValid returns true if the configuration is valid.
func (v *Validator) IsValid(cfg *Config) bool {
	return len(v.Validate(cfg)) == 0
}
