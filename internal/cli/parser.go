package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// ParseResult holds the result of parsing command line arguments.
type ParseResult struct {
	// Command is the parsed command.
	Command Command

	// GlobalFlags contains the global flag values.
	GlobalFlags GlobalFlags

	// RunFlags contains run command flag values.
	RunFlags RunFlags

	// CheckFlags contains check command flag values.
	CheckFlags CheckFlags

	// Args contains any remaining positional arguments. For run these are
	// the program and its arguments.
	Args []string

	// ShowHelp indicates that help should be displayed.
	ShowHelp bool

	// HelpCommand is the command to show help for (when using "help <command>").
	HelpCommand string
}

// Parser handles command line argument parsing.
type Parser struct {
	programName string
	version     string
	buildTime   string
	gitCommit   string
}

// NewParser creates a new CLI parser with build information.
func NewParser(programName, version, buildTime, gitCommit string) *Parser {
	return &Parser{
		programName: programName,
		version:     version,
		buildTime:   buildTime,
		gitCommit:   gitCommit,
	}
}

// Parse parses command line arguments and returns a ParseResult.
// The args parameter should not include the program name (typically os.Args[1:]).
// Help flags are only honoured before the command's own positional
// arguments, so "run grep -h" passes -h to grep.
func (p *Parser) Parse(args []string) (*ParseResult, error) {
	result := &ParseResult{}

	if len(args) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	// Parse global flags - the flag package will stop at the first non-flag argument
	globalFs := p.createGlobalFlagSet(&result.GlobalFlags)
	if err := globalFs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			result.ShowHelp = true
			return result, nil
		}
		return nil, fmt.Errorf("invalid global flags: %w", err)
	}

	remaining := globalFs.Args()
	if len(remaining) == 0 {
		result.ShowHelp = true
		return result, nil
	}

	if err := result.GlobalFlags.Validate(); err != nil {
		return nil, err
	}

	cmdStr := remaining[0]
	result.Command = ParseCommand(cmdStr)
	if result.Command == CommandNone {
		return nil, fmt.Errorf("unknown command: %s", cmdStr)
	}

	if err := p.parseCommandFlags(result, remaining[1:]); err != nil {
		return nil, err
	}
	return result, nil
}

// createGlobalFlagSet creates a FlagSet with global flag definitions.
func (p *Parser) createGlobalFlagSet(flags *GlobalFlags) *flag.FlagSet {
	fs := newFlagSet("global")

	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose output")
	fs.BoolVar(&flags.Verbose, "v", false, "Enable verbose output (shorthand)")

	fs.BoolVar(&flags.Quiet, "quiet", false, "Suppress non-essential output")
	fs.BoolVar(&flags.Quiet, "q", false, "Suppress non-essential output (shorthand)")

	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.StringVar(&flags.ConfigFile, "c", "", "Path to config file (shorthand)")

	fs.StringVar(&flags.LogFile, "log-file", "", "Path to log file")
	fs.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&flags.LogFormat, "log-format", "", "Log format (text, logfmt, json)")
	fs.BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	return fs
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseCommandFlags parses flags specific to each command.
func (p *Parser) parseCommandFlags(result *ParseResult, args []string) error {
	switch result.Command {
	case CommandRun:
		return p.parseRunFlags(result, args)
	case CommandCheck:
		return p.parseCheckFlags(result, args)
	case CommandHelp:
		return p.parseHelpFlags(result, args)
	case CommandVersion:
		result.Args = args
		return nil
	}
	return nil
}

func (p *Parser) parseRunFlags(result *ParseResult, args []string) error {
	fs := newFlagSet("run")
	f := &result.RunFlags

	fs.Var(patternList{&f.Stdout}, "stdout", "Expect a stdout line matching the pattern")
	fs.Var(patternList{&f.Stderr}, "stderr", "Expect a stderr line matching the pattern")
	fs.Var(optionalInt{&f.ExitCode}, "exit-code", "Expected exit status")
	fs.StringVar(&f.Cwd, "cwd", "", "Working directory")
	fs.BoolVar(&f.Shell, "shell", false, "Run the arguments as one shell line")
	fs.DurationVar(&f.Timeout, "timeout", 0, "Command timeout")
	fs.BoolVar(&f.Print, "print", false, "Always print the result")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			result.ShowHelp = true
			result.HelpCommand = "run"
			return nil
		}
		return fmt.Errorf("invalid run flags: %w", err)
	}
	result.Args = fs.Args()

	if len(result.Args) == 0 {
		return &FlagError{Flag: "run", Message: "missing command to run"}
	}
	return f.Validate()
}

func (p *Parser) parseCheckFlags(result *ParseResult, args []string) error {
	fs := newFlagSet("check")
	f := &result.CheckFlags

	fs.StringVar(&f.Format, "format", "", "Report format (text, yaml)")
	fs.StringVar(&f.Format, "o", "", "Report format (shorthand)")
	fs.BoolVar(&f.FailFast, "fail-fast", false, "Stop after the first check that does not pass")
	fs.BoolVar(&f.FailFast, "x", false, "Stop after the first failure (shorthand)")
	fs.BoolVar(&f.VerboseReport, "verbose-report", false, "Include results of passing checks")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			result.ShowHelp = true
			result.HelpCommand = "check"
			return nil
		}
		return fmt.Errorf("invalid check flags: %w", err)
	}
	result.Args = fs.Args()

	if len(result.Args) > 1 {
		return &FlagError{Flag: "check", Message: "expected at most one suite file"}
	}
	return f.Validate()
}

func (p *Parser) parseHelpFlags(result *ParseResult, args []string) error {
	result.ShowHelp = true
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		result.HelpCommand = args[0]
	}
	return nil
}

// Usage returns the main usage string.
func (p *Parser) Usage() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s - run commands and match their output against glob patterns\n\n", p.programName)
	b.WriteString("Usage:\n")
	fmt.Fprintf(&b, "  %s [global flags] <command> [command flags]\n\n", p.programName)

	b.WriteString("Commands:\n")
	for _, cmd := range Commands() {
		fmt.Fprintf(&b, "  %-12s %s\n", cmd.Name, cmd.Description)
	}

	b.WriteString("\nGlobal Flags:\n")
	b.WriteString("  -v, --verbose     Enable verbose output\n")
	b.WriteString("  -q, --quiet       Suppress non-essential output\n")
	b.WriteString("  -c, --config      Path to config file\n")
	b.WriteString("      --log-file    Path to log file\n")
	b.WriteString("      --log-level   Log level (debug, info, warn, error)\n")
	b.WriteString("      --log-format  Log format (text, logfmt, json)\n")
	b.WriteString("      --no-color    Disable colored output\n")

	fmt.Fprintf(&b, "\nUse \"%s help <command>\" for more information about a command.\n", p.programName)

	return b.String()
}

// CommandUsage returns the usage string for a specific command.
func (p *Parser) CommandUsage(cmd string) string {
	parsedCmd := ParseCommand(cmd)
	if parsedCmd == CommandNone {
		return fmt.Sprintf("Unknown command: %s\n\nRun '%s help' for usage.\n", cmd, p.programName)
	}

	info := GetCommandInfo(parsedCmd)
	if info == nil {
		return fmt.Sprintf("No help available for: %s\n", cmd)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", info.Description)
	fmt.Fprintf(&b, "Usage:\n  %s\n\n", info.Usage)
	if info.LongDescription != "" {
		b.WriteString(info.LongDescription)
		b.WriteString("\n")
	}
	return b.String()
}

// VersionString returns formatted version information.
func (p *Parser) VersionString() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s version %s\n", p.programName, p.version)

	if p.buildTime != "" && p.buildTime != "unknown" {
		fmt.Fprintf(&b, "Build time: %s\n", p.buildTime)
	}

	if p.gitCommit != "" && p.gitCommit != "unknown" {
		commit := p.gitCommit
		if len(commit) > 7 {
			commit = commit[:7]
		}
		fmt.Fprintf(&b, "Git commit: %s\n", commit)
	}

	return b.String()
}

// VersionInfo returns version components for structured output.
func (p *Parser) VersionInfo() map[string]string {
	return map[string]string{
		"version":   p.version,
		"buildTime": p.buildTime,
		"gitCommit": p.gitCommit,
	}
}
