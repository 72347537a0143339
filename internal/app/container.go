// Package app wires configuration, logging, the command executor and the
// suite runner together and manages the process lifecycle for runcheck.
package app

import (
	"sync"

	"github.com/tungetti/runcheck/internal/config"
	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/exec"
	"github.com/tungetti/runcheck/internal/logging"
	"github.com/tungetti/runcheck/internal/suite"
)

// Container holds all application dependencies.
// It provides thread-safe access to shared components and ensures
// proper initialization order during application startup.
type Container struct {
	mu          sync.RWMutex
	Config      *config.Config
	Logger      logging.Logger
	ExecOptions exec.Options
	Executor    exec.Executor
	Runner      *suite.Runner
}

// NewContainer creates a new dependency container.
func NewContainer() *Container {
	return &Container{}
}

// SetConfig sets the configuration.
func (c *Container) SetConfig(cfg *config.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Config = cfg
}

// SetLogger sets the logger.
func (c *Container) SetLogger(l logging.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Logger = l
}

// SetExecutor sets the default executor and the options it was built with.
func (c *Container) SetExecutor(e exec.Executor, opts exec.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Executor = e
	c.ExecOptions = opts
}

// SetRunner sets the suite runner.
func (c *Container) SetRunner(r *suite.Runner) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Runner = r
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Config
}

// GetLogger returns the logger.
func (c *Container) GetLogger() logging.Logger {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logger
}

// GetExecutor returns the default executor.
func (c *Container) GetExecutor() exec.Executor {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Executor
}

// GetExecOptions returns the options the default executor was built with.
func (c *Container) GetExecOptions() exec.Options {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ExecOptions
}

// GetRunner returns the suite runner.
func (c *Container) GetRunner() *suite.Runner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Runner
}

// Validate checks that all required dependencies are set.
func (c *Container) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Config == nil {
		return errors.New(errors.Configuration, "config not initialized")
	}
	if c.Logger == nil {
		return errors.New(errors.Configuration, "logger not initialized")
	}
	if c.Executor == nil {
		return errors.New(errors.Configuration, "executor not initialized")
	}
	if c.Runner == nil {
		return errors.New(errors.Configuration, "runner not initialized")
	}
	return nil
}
