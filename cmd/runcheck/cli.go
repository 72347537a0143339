package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tungetti/runcheck/internal/app"
	"github.com/tungetti/runcheck/internal/cli"
	"github.com/tungetti/runcheck/internal/config"
	"github.com/tungetti/runcheck/internal/constants"
	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/suite"
)

// CLI encapsulates the command-line interface for runcheck.
type CLI struct {
	parser *cli.Parser
	config *config.Config
	app    *app.App

	stdout io.Writer
	stderr io.Writer

	// executorFactory replaces real executors in tests.
	executorFactory suite.ExecutorFactory
}

// NewCLI creates a new CLI instance writing to the process streams.
func NewCLI() *CLI {
	return &CLI{
		parser: cli.NewParser(constants.AppName, Version, BuildTime, GitCommit),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run parses arguments and executes the appropriate command.
// It returns an exit code suitable for os.Exit().
func (c *CLI) Run(args []string) int {
	result, err := c.parser.Parse(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		fmt.Fprintf(c.stderr, "Run '%s help' for usage.\n", constants.AppName)
		return constants.ExitValidation.Int()
	}

	if result.ShowHelp {
		return c.showHelp(result)
	}
	if result.Command == cli.CommandVersion {
		return c.cmdVersion()
	}

	if err := c.loadConfig(result); err != nil {
		fmt.Fprintf(c.stderr, "Error loading config: %v\n", err)
		return constants.ExitValidation.Int()
	}
	c.applyGlobalFlags(result.GlobalFlags)

	c.app = app.New(app.Options{
		Version:         Version,
		BuildTime:       BuildTime,
		GitCommit:       GitCommit,
		ShutdownTimeout: app.DefaultOptions().ShutdownTimeout,
		LogOutput:       c.stderr,
		ExecutorFactory: c.executorFactory,
	})
	if err := c.app.Initialize(c.config); err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return constants.ExitValidation.Int()
	}
	defer func() {
		if err := c.app.Shutdown(); err != nil {
			fmt.Fprintf(c.stderr, "Error during shutdown: %v\n", err)
		}
	}()

	return c.executeCommand(result)
}

// loadConfig loads configuration from file and environment.
func (c *CLI) loadConfig(result *cli.ParseResult) error {
	configPath := result.GlobalFlags.ConfigFile
	if configPath == "" {
		configPath = config.DefaultConfig().ConfigPath()
	}

	cfg, err := config.NewLoader(configPath).Load()
	if err != nil {
		return err
	}

	c.config = cfg
	return nil
}

// applyGlobalFlags applies CLI global flags to the configuration.
// CLI flags take precedence over config file values.
func (c *CLI) applyGlobalFlags(flags cli.GlobalFlags) {
	if flags.Verbose {
		c.config.Verbose = true
		c.config.Quiet = false
	}
	if flags.Quiet {
		c.config.Quiet = true
		c.config.Verbose = false
	}
	if flags.LogFile != "" {
		c.config.LogFile = flags.LogFile
	}
	if flags.LogLevel != "" {
		c.config.LogLevel = flags.LogLevel
	}
	if flags.LogFormat != "" {
		c.config.LogFormat = flags.LogFormat
	}
	if flags.NoColor {
		c.config.NoColor = true
	}
}

// showHelp displays help information and returns an exit code.
func (c *CLI) showHelp(result *cli.ParseResult) int {
	if result.HelpCommand != "" {
		fmt.Fprint(c.stdout, c.parser.CommandUsage(result.HelpCommand))
	} else {
		fmt.Fprint(c.stdout, c.parser.Usage())
	}
	return constants.ExitSuccess.Int()
}

// executeCommand runs the appropriate command handler.
func (c *CLI) executeCommand(result *cli.ParseResult) int {
	var code constants.ExitCode
	err := c.app.Run(context.Background(), func(ctx context.Context) error {
		switch result.Command {
		case cli.CommandRun:
			code = c.cmdRun(ctx, result)
		case cli.CommandCheck:
			code = c.cmdCheck(ctx, result)
		default:
			fmt.Fprint(c.stdout, c.parser.Usage())
			code = constants.ExitSuccess
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return constants.ExitError.Int()
	}
	return code.Int()
}

// cmdVersion displays version information.
func (c *CLI) cmdVersion() int {
	fmt.Fprint(c.stdout, c.parser.VersionString())
	return constants.ExitSuccess.Int()
}

// cmdRun runs one command and checks it against the run flags.
func (c *CLI) cmdRun(ctx context.Context, result *cli.ParseResult) constants.ExitCode {
	f := result.RunFlags

	res, err := c.app.RunCommand(ctx, app.CommandRequest{
		Args:    result.Args,
		Shell:   f.Shell,
		WorkDir: f.Cwd,
		Timeout: f.Timeout,
	})
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	failures := suite.Evaluate(res, f.ExitCode, f.Expectations())
	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintf(c.stderr, "FAIL: %s\n", firstLine(failure.Error()))
		}
		fmt.Fprintf(c.stderr, "\n%s", res)
		return constants.ExitCheckFailed
	}

	if f.Print || c.config.IsVerbose() {
		fmt.Fprint(c.stdout, res.String())
	}
	return constants.ExitSuccess
}

// cmdCheck runs a suite file and renders its report.
func (c *CLI) cmdCheck(ctx context.Context, result *cli.ParseResult) constants.ExitCode {
	f := result.CheckFlags

	path := constants.DefaultSuiteFile
	if len(result.Args) > 0 {
		path = result.Args[0]
	}

	report, err := c.app.RunSuite(ctx, path, f.FailFast)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return exitCodeFor(err)
	}

	format := f.Format
	if format == "" {
		format = c.config.ReportFormat
	}

	switch strings.ToLower(format) {
	case "yaml":
		err = suite.RenderYAML(c.stdout, report)
	default:
		err = suite.RenderText(c.stdout, report, suite.NewStyles(c.stdout, c.config.NoColor), f.VerboseReport)
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "Error writing report: %v\n", err)
		return constants.ExitError
	}

	switch {
	case report.Passed():
		return constants.ExitSuccess
	case report.TimedOut():
		return constants.ExitTimeout
	default:
		return constants.ExitCheckFailed
	}
}

// exitCodeFor maps an error to the process exit code.
func exitCodeFor(err error) constants.ExitCode {
	switch errors.GetCode(err) {
	case errors.Timeout:
		return constants.ExitTimeout
	case errors.Validation, errors.Parse, errors.Usage:
		return constants.ExitValidation
	case errors.Match, errors.ExitStatus:
		return constants.ExitCheckFailed
	default:
		return constants.ExitError
	}
}

// firstLine trims a match error down to its headline; the full output is
// printed once with the result.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSuffix(s[:i], ":")
	}
	return s
}
