package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tungetti/runcheck/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "", cfg.LogFile)
	assert.False(t, cfg.Verbose)
	assert.False(t, cfg.Quiet)
	assert.Equal(t, 10*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, "", cfg.WorkDir)
	assert.Equal(t, "text", cfg.ReportFormat)
	assert.False(t, cfg.FailFast)
	assert.Contains(t, cfg.ConfigDir, "runcheck")
	assert.True(t, NewValidator().IsValid(cfg))
}

func TestXDGConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join("/tmp/test-xdg-config", "runcheck"), cfg.ConfigDir)
	assert.Equal(t, filepath.Join("/tmp/test-xdg-config", "runcheck", "config.yaml"), cfg.ConfigPath())
	assert.Equal(t, cfg.ConfigDir, GetConfigDir())
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Shell = "/bin/bash"

	assert.Equal(t, "/bin/sh", cfg.Shell)
	assert.Equal(t, "/bin/bash", clone.Shell)
}

func TestConfigHelperMethods(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Verbose = true
	assert.True(t, cfg.IsVerbose())

	cfg.Quiet = true
	assert.False(t, cfg.IsVerbose())
	assert.True(t, cfg.IsSilent())
}

func TestLoaderLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Shell, cfg.Shell)
}

func TestLoaderLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `log_level: debug
log_format: json
command_timeout: 90s
shell: /bin/bash
report_format: yaml
fail_fast: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "/bin/bash", cfg.Shell)
	assert.Equal(t, "yaml", cfg.ReportFormat)
	assert.True(t, cfg.FailFast)
}

func TestLoaderFileNotFound(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoaderInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: [unclosed"), 0644))

	cfg, err := NewLoader(path).Load()
	assert.Nil(t, cfg)
	assert.True(t, errors.IsCode(err, errors.Configuration))
	assert.Contains(t, err.Error(), "config.loadFromFile")
}

func TestLoaderEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\nshell: /bin/zsh\n"), 0644))

	workDir := t.TempDir()
	t.Setenv("RUNCHECK_LOG_LEVEL", "error")
	t.Setenv("RUNCHECK_LOG_FORMAT", "logfmt")
	t.Setenv("RUNCHECK_VERBOSE", "yes")
	t.Setenv("RUNCHECK_NO_COLOR", "1")
	t.Setenv("RUNCHECK_COMMAND_TIMEOUT", "3m")
	t.Setenv("RUNCHECK_WORK_DIR", workDir)
	t.Setenv("RUNCHECK_REPORT_FORMAT", "yaml")
	t.Setenv("RUNCHECK_FAIL_FAST", "on")

	cfg, err := NewLoader(path).LoadAndValidate()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "logfmt", cfg.LogFormat)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, 3*time.Minute, cfg.CommandTimeout)
	assert.Equal(t, "/bin/zsh", cfg.Shell)
	assert.Equal(t, workDir, cfg.WorkDir)
	assert.Equal(t, "yaml", cfg.ReportFormat)
	assert.True(t, cfg.FailFast)
}

func TestLoaderWithInvalidDuration(t *testing.T) {
	t.Setenv("RUNCHECK_COMMAND_TIMEOUT", "soon")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultCommandTimeout, cfg.CommandTimeout)
}

func TestLoaderWithCustomPrefix(t *testing.T) {
	t.Setenv("CI_SHELL", "/usr/bin/bash")

	cfg, err := NewLoaderWithPrefix("", "CI_").Load()
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/bash", cfg.Shell)
}

func TestLoaderLoadAndValidateInvalid(t *testing.T) {
	t.Setenv("RUNCHECK_LOG_LEVEL", "loud")

	cfg, err := NewLoader("").LoadAndValidate()
	assert.Nil(t, cfg)
	assert.True(t, errors.IsCode(err, errors.Configuration))
	assert.Contains(t, err.Error(), "log_level")
}

func TestValidator(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"report format", func(c *Config) { c.ReportFormat = "html" }, "report_format"},
		{"timeout", func(c *Config) { c.CommandTimeout = 0 }, "command_timeout"},
		{"shell", func(c *Config) { c.Shell = "  " }, "shell"},
		{"verbose and quiet", func(c *Config) { c.Verbose, c.Quiet = true, true }, "verbose/quiet"},
		{"log file dir", func(c *Config) { c.LogFile = "/nonexistent/dir/x.log" }, "log_file"},
		{"work dir", func(c *Config) { c.WorkDir = "/nonexistent/work" }, "work_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			errs := NewValidator().Validate(cfg)
			require.Len(t, errs, 1)
			var ve *ValidationError
			require.ErrorAs(t, errs[0], &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidatorValidateOrError(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, NewValidator().ValidateOrError(cfg))

	cfg.LogLevel = "bad"
	cfg.Shell = ""
	err := NewValidator().ValidateOrError(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")
	assert.Contains(t, err.Error(), "shell")
	assert.Contains(t, err.Error(), "config.Validate")
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"true", "TRUE", "1", "yes", " on "} {
		assert.True(t, parseBool(s), s)
	}
	for _, s := range []string{"false", "0", "no", "off", "", "maybe"} {
		assert.False(t, parseBool(s), s)
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Shell = "/bin/bash"
	cfg.CommandTimeout = 45 * time.Second

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "/bin/bash", loaded.Shell)
	assert.Equal(t, 45*time.Second, loaded.CommandTimeout)
}

func TestValidationErrorString(t *testing.T) {
	err := &ValidationError{Field: "shell", Message: "cannot be empty"}
	assert.Equal(t, "config validation: shell: cannot be empty", err.Error())
}
