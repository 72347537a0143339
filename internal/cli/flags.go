// Package cli provides command-line argument parsing for runcheck.
// It supports subcommands, global flags, and command-specific flags with both
// short and long variants. The parser integrates with the config package to
// provide a unified configuration experience.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tungetti/runcheck/internal/runresult"
)

// GlobalFlags holds flags common to all commands.
// These flags can be specified before the command name and affect
// the overall behavior of the application.
type GlobalFlags struct {
	// Verbose enables detailed output for debugging and troubleshooting.
	Verbose bool

	// Quiet suppresses non-essential output, only showing errors.
	Quiet bool

	// ConfigFile specifies a custom configuration file path.
	ConfigFile string

	// LogFile specifies the path to write log output.
	LogFile string

	// LogLevel sets the logging verbosity (debug, info, warn, error).
	LogLevel string

	// LogFormat sets the log encoding (text, logfmt, json).
	LogFormat string

	// NoColor disables colored terminal output.
	NoColor bool
}

// RunFlags holds run command flags.
type RunFlags struct {
	// Stdout and Stderr hold one pattern per expectation, in flag order.
	Stdout []string
	Stderr []string

	// ExitCode is the expected exit status, nil when not checked.
	ExitCode *int

	Cwd     string
	Shell   bool
	Timeout time.Duration

	// Print always prints the result, not only on failure.
	Print bool
}

// Expectations returns the stdout expectations followed by the stderr ones.
func (f *RunFlags) Expectations() []runresult.Expectation {
	out := make([]runresult.Expectation, 0, len(f.Stdout)+len(f.Stderr))
	for _, p := range f.Stdout {
		out = append(out, runresult.OnStdout(p))
	}
	for _, p := range f.Stderr {
		out = append(out, runresult.OnStderr(p))
	}
	return out
}

// Validate rejects empty patterns and a negative timeout.
func (f *RunFlags) Validate() error {
	for _, e := range f.Expectations() {
		if err := e.Validate(); err != nil {
			return &FlagError{Flag: e.Stream.String(), Message: "pattern must not be empty"}
		}
	}
	if f.Timeout < 0 {
		return &FlagError{Flag: "timeout", Message: "must not be negative"}
	}
	return nil
}

// CheckFlags holds check command flags.
type CheckFlags struct {
	// Format is the report format, empty for the configured default.
	Format string

	FailFast bool

	// VerboseReport includes the results of passing checks.
	VerboseReport bool
}

// Validate checks the report format.
func (f *CheckFlags) Validate() error {
	switch strings.ToLower(f.Format) {
	case "", "text", "yaml":
		return nil
	default:
		return &FlagError{Flag: "format", Message: fmt.Sprintf("unknown report format %q, want text or yaml", f.Format)}
	}
}

// Validate checks GlobalFlags for conflicting options.
// It returns an error if incompatible flags are set together.
func (f *GlobalFlags) Validate() error {
	if f.Verbose && f.Quiet {
		return &FlagError{
			Flag:    "verbose/quiet",
			Message: "cannot use --verbose and --quiet together",
		}
	}
	return nil
}

// FlagError represents an error with a command-line flag.
type FlagError struct {
	Flag    string
	Message string
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return "flag error: " + e.Flag + ": " + e.Message
}

// patternList is a repeatable string flag.
type patternList struct {
	values *[]string
}

func (p patternList) String() string {
	if p.values == nil {
		return ""
	}
	return strings.Join(*p.values, ",")
}

func (p patternList) Set(v string) error {
	*p.values = append(*p.values, v)
	return nil
}

// optionalInt is an int flag that records whether it was set.
type optionalInt struct {
	target **int
}

func (o optionalInt) String() string {
	if o.target == nil || *o.target == nil {
		return ""
	}
	return strconv.Itoa(**o.target)
}

func (o optionalInt) Set(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid integer %q", v)
	}
	*o.target = &n
	return nil
}
