package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"github.com/tungetti/runcheck/internal/config"
	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/exec"
	"github.com/tungetti/runcheck/internal/logging"
	"github.com/tungetti/runcheck/internal/runresult"
	"github.com/tungetti/runcheck/internal/suite"
)

// App represents the main application with its dependencies and lifecycle.
type App struct {
	container   *Container
	lifecycle   *Lifecycle
	version     string
	buildTime   string
	gitCommit   string
	logOutput   io.Writer
	newExecutor suite.ExecutorFactory
}

// Options configures the application.
type Options struct {
	Version         string
	BuildTime       string
	GitCommit       string
	ShutdownTimeout time.Duration

	// LogOutput receives console logs. Defaults to os.Stderr.
	LogOutput io.Writer

	// ExecutorFactory builds executors for commands and suite checks.
	// Defaults to real executors.
	ExecutorFactory suite.ExecutorFactory
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Version:         "unknown",
		BuildTime:       "unknown",
		GitCommit:       "unknown",
		ShutdownTimeout: 5 * time.Second,
	}
}

// New creates a new application with the given options.
func New(opts Options) *App {
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	return &App{
		container:   NewContainer(),
		lifecycle:   NewLifecycle(opts.ShutdownTimeout),
		version:     opts.Version,
		buildTime:   opts.BuildTime,
		gitCommit:   opts.GitCommit,
		logOutput:   out,
		newExecutor: opts.ExecutorFactory,
	}
}

// Initialize sets up all application components in the correct order.
// The initialization order is:
// 1. Configuration validation
// 2. Logger
// 3. Command executor
// 4. Suite runner
func (a *App) Initialize(cfg *config.Config) error {
	if err := config.NewValidator().ValidateOrError(cfg); err != nil {
		return err
	}
	a.container.SetConfig(cfg)

	logger, err := a.initLogger(cfg)
	if err != nil {
		return errors.Wrap(errors.Configuration, "failed to initialize logger", err)
	}
	a.container.SetLogger(logger)

	logger.Debug("starting application",
		"version", a.version,
		"build_time", a.buildTime,
		"git_commit", a.gitCommit,
	)

	execOpts := exec.DefaultOptions()
	if cfg.CommandTimeout > 0 {
		execOpts.Timeout = cfg.CommandTimeout
	}
	if cfg.Shell != "" {
		execOpts.Shell = cfg.Shell
	}
	execOpts.WorkDir = cfg.WorkDir

	if a.newExecutor == nil {
		execLogger := logger.WithPrefix("exec")
		a.newExecutor = func(o exec.Options) exec.Executor {
			return exec.NewExecutor(o, execLogger)
		}
	}
	a.container.SetExecutor(a.newExecutor(execOpts), execOpts)

	a.container.SetRunner(suite.NewRunner(execOpts,
		suite.WithExecutorFactory(a.newExecutor),
		suite.WithLogger(logger),
		suite.WithFailFast(cfg.FailFast),
	))

	if err := a.container.Validate(); err != nil {
		return err
	}

	logger.Debug("application initialized", "shell", execOpts.Shell, "timeout", execOpts.Timeout)
	return nil
}

// CommandRequest describes one ad-hoc command. Zero fields fall back to
// the configured defaults.
type CommandRequest struct {
	Args    []string
	Shell   bool
	WorkDir string
	Timeout time.Duration
	Stdin   []byte
}

// RunCommand executes req and returns its result. With Shell set, Args
// are joined with spaces and run as one shell line.
func (a *App) RunCommand(ctx context.Context, req CommandRequest) (runresult.Result, error) {
	if len(req.Args) == 0 {
		return runresult.Result{}, errors.New(errors.Validation, "no command given").WithOp("app.RunCommand")
	}

	executor := a.container.GetExecutor()
	opts := a.container.GetExecOptions()
	if req.WorkDir != "" || req.Timeout > 0 {
		if req.WorkDir != "" {
			opts.WorkDir = req.WorkDir
		}
		if req.Timeout > 0 {
			opts.Timeout = req.Timeout
		}
		executor = a.newExecutor(opts)
	}

	switch {
	case req.Shell:
		line := strings.Join(req.Args, " ")
		if req.Stdin != nil {
			return executor.ExecuteShellWithInput(ctx, req.Stdin, line)
		}
		return executor.ExecuteShell(ctx, line)
	case req.Stdin != nil:
		return executor.ExecuteWithInput(ctx, req.Stdin, req.Args[0], req.Args[1:]...)
	default:
		return executor.Execute(ctx, req.Args[0], req.Args[1:]...)
	}
}

// RunSuite loads the suite at path and runs it. failFast overrides the
// configured setting when true.
func (a *App) RunSuite(ctx context.Context, path string, failFast bool) (*suite.Report, error) {
	s, err := suite.Load(path)
	if err != nil {
		return nil, err
	}

	runner := a.container.GetRunner()
	if failFast && !a.container.GetConfig().FailFast {
		runner = suite.NewRunner(a.container.GetExecOptions(),
			suite.WithExecutorFactory(a.newExecutor),
			suite.WithLogger(a.container.GetLogger()),
			suite.WithFailFast(true),
		)
	}

	a.container.GetLogger().Info("running suite", "path", path, "checks", len(s.Checks))
	return runner.Run(ctx, s), nil
}

// Run calls fn with a context cancelled on SIGINT or SIGTERM. A panic in
// fn is recovered and returned as an error.
func (a *App) Run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = a.handlePanic(r)
		}
	}()

	ctx, stop := a.lifecycle.WatchSignals(ctx, func(sig os.Signal) {
		if logger := a.container.GetLogger(); logger != nil {
			logger.Warn("received signal, stopping", "signal", sig.String())
		}
	})
	defer stop()

	return fn(ctx)
}

// Shutdown releases resources such as the log file.
func (a *App) Shutdown() error {
	return a.lifecycle.Shutdown()
}

// Container returns the dependency container.
func (a *App) Container() *Container {
	return a.container
}

// Lifecycle returns the lifecycle manager.
func (a *App) Lifecycle() *Lifecycle {
	return a.lifecycle
}

// Version returns the application version.
func (a *App) Version() string {
	return a.version
}

// initLogger builds the console logger and, with a log file configured,
// a debug-level file logger alongside it.
func (a *App) initLogger(cfg *config.Config) (logging.Logger, error) {
	opts := logging.DefaultOptions()
	opts.Output = a.logOutput
	opts.Level = logging.ParseLevel(cfg.LogLevel)
	opts.Format = logging.ParseFormat(cfg.LogFormat)
	opts.NoColor = cfg.NoColor
	switch {
	case cfg.IsVerbose():
		opts.Level = logging.LevelDebug
	case cfg.IsSilent():
		opts.Level = logging.LevelError
	}
	console := logging.New(opts)

	if cfg.LogFile == "" {
		return console, nil
	}

	file, closeFile, err := logging.NewFileLogger(cfg.LogFile, logging.LevelDebug)
	if err != nil {
		return nil, err
	}
	a.lifecycle.OnShutdown(func(context.Context) error {
		return closeFile()
	})
	return logging.NewMultiLogger(console, file), nil
}

// handlePanic handles a recovered panic and returns an error.
// It logs the panic with a stack trace if a logger is available.
func (a *App) handlePanic(r interface{}) error {
	stack := debug.Stack()
	logger := a.container.GetLogger()

	if logger != nil {
		logger.Error("panic recovered",
			"panic", fmt.Sprintf("%v", r),
			"stack", string(stack),
		)
	} else {
		fmt.Fprintf(os.Stderr, "PANIC: %v\n%s\n", r, stack)
	}

	return errors.Newf(errors.Unknown, "panic: %v", r)
}
