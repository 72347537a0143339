// Package exec runs external commands to completion and packages their
// outcome as runresult.Result values. It also provides a MockExecutor for
// tests that must not spawn processes.
package exec

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/logging"
	"github.com/tungetti/runcheck/internal/runresult"
)

// Executor defines the interface for command execution.
// All implementations must be safe for concurrent use.
//
// A command that runs and exits with a non-zero status is not an error:
// the status is reported through Result.ExitCode. Errors are reserved for
// commands that could not start, timed out, or were cancelled.
type Executor interface {
	// Execute runs cmd with args and returns the result.
	Execute(ctx context.Context, cmd string, args ...string) (runresult.Result, error)

	// ExecuteShell runs a command line through the configured shell.
	ExecuteShell(ctx context.Context, line string) (runresult.Result, error)

	// ExecuteShellWithInput runs a command line through the configured
	// shell with stdin input.
	ExecuteShellWithInput(ctx context.Context, input []byte, line string) (runresult.Result, error)

	// ExecuteWithInput runs a command with stdin input.
	ExecuteWithInput(ctx context.Context, input []byte, cmd string, args ...string) (runresult.Result, error)
}

// Options configures the executor behavior.
type Options struct {
	Timeout time.Duration // Per-command timeout (0 = no timeout)
	WorkDir string        // Working directory (empty = current directory)
	Env     []string      // Extra KEY=VALUE pairs appended to the inherited environment
	Shell   string        // Shell used by ExecuteShell, invoked as "<shell> -c <line>"
}

// pipeDrainDelay bounds how long Run waits for output pipes after the
// command exits or is killed. Processes that escaped the process group can
// otherwise hold them open indefinitely.
const pipeDrainDelay = 2 * time.Second

// DefaultOptions returns defaults for command execution.
func DefaultOptions() Options {
	return Options{
		Timeout: 10 * time.Minute,
		Shell:   "/bin/sh",
	}
}

// RealExecutor is the production implementation of Executor.
type RealExecutor struct {
	mu     sync.RWMutex
	opts   Options
	logger logging.Logger
}

// NewExecutor creates a new executor. A nil logger discards log output.
func NewExecutor(opts Options, logger logging.Logger) *RealExecutor {
	if logger == nil {
		logger = logging.NewNop()
	}
	if opts.Shell == "" {
		opts.Shell = DefaultOptions().Shell
	}
	return &RealExecutor{
		opts:   opts,
		logger: logger,
	}
}

// Execute runs a command and returns the result.
func (e *RealExecutor) Execute(ctx context.Context, cmd string, args ...string) (runresult.Result, error) {
	return e.run(ctx, nil, CommandLine(cmd, args...), cmd, args)
}

// ExecuteShell runs line via "<shell> -c line". The recorded command is
// line itself.
func (e *RealExecutor) ExecuteShell(ctx context.Context, line string) (runresult.Result, error) {
	shell := e.Options().Shell
	return e.run(ctx, nil, line, shell, []string{"-c", line})
}

// ExecuteShellWithInput is ExecuteShell with stdin input. The recorded
// command is line itself.
func (e *RealExecutor) ExecuteShellWithInput(ctx context.Context, input []byte, line string) (runresult.Result, error) {
	shell := e.Options().Shell
	return e.run(ctx, input, line, shell, []string{"-c", line})
}

// ExecuteWithInput runs a command with stdin input.
func (e *RealExecutor) ExecuteWithInput(ctx context.Context, input []byte, cmd string, args ...string) (runresult.Result, error) {
	return e.run(ctx, input, CommandLine(cmd, args...), cmd, args)
}

func (e *RealExecutor) run(ctx context.Context, input []byte, display, cmd string, args []string) (runresult.Result, error) {
	opts := e.Options()

	dir, err := resolveDir(opts.WorkDir)
	if err != nil {
		return runresult.Result{}, errors.Wrap(errors.NotFound, "cannot resolve working directory", err).
			WithOp("exec.run")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	log := e.logger.WithFields("run_id", uuid.New().String())
	log.Debug("running command", "command", display, "cwd", dir)

	c := exec.CommandContext(ctx, cmd, args...)
	c.Dir = dir
	c.WaitDelay = pipeDrainDelay
	setProcessGroup(c)
	if len(opts.Env) > 0 {
		c.Env = append(os.Environ(), opts.Env...)
	}
	if input != nil {
		c.Stdin = bytes.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	runErr := c.Run()
	elapsed := time.Since(start)

	exitCode := 0
	if runErr != nil {
		// Context errors take priority: a killed process also reports an ExitError.
		switch {
		case ctx.Err() == context.DeadlineExceeded:
			log.Warn("command timed out", "command", display, "timeout", opts.Timeout)
			return runresult.Result{}, errors.Wrapf(errors.Timeout, runErr, "command %q timed out after %s", display, opts.Timeout).
				WithOp("exec.run")
		case ctx.Err() == context.Canceled:
			return runresult.Result{}, errors.Wrap(errors.Unknown, "command cancelled", runErr).
				WithOp("exec.run")
		}

		exitErr, ok := runErr.(*exec.ExitError)
		switch {
		case ok:
			exitCode = exitErr.ExitCode()
		case stderrors.Is(runErr, exec.ErrWaitDelay):
			// A background process kept the pipes open after the command exited.
			log.Warn("output pipes still open after exit", "command", display)
			exitCode = c.ProcessState.ExitCode()
		default:
			log.Error("command failed to start", "command", display, "err", runErr)
			return runresult.Result{}, errors.Wrapf(errors.Execution, runErr, "command %q could not be executed", display).
				WithOp("exec.run")
		}
	}

	log.Debug("command finished", "exit_code", exitCode, "duration", elapsed)
	return runresult.New(display, dir, stdout.String(), stderr.String(), exitCode), nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.Validation, "%s is not a directory", abs)
	}
	return abs, nil
}

// Options returns the current executor options.
func (e *RealExecutor) Options() Options {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.opts
}

// SetOptions updates the executor options.
func (e *RealExecutor) SetOptions(opts Options) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts = opts
}

// SetTimeout updates the default timeout.
func (e *RealExecutor) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Timeout = timeout
}

// SetWorkDir updates the working directory.
func (e *RealExecutor) SetWorkDir(workDir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.WorkDir = workDir
}

// CommandLine renders cmd and args as a single shell-readable line.
// Arguments containing whitespace or quotes are single-quoted.
func CommandLine(cmd string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(cmd))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`|&;<>()*?[]{}~#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
