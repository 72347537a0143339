// Package constants defines application-wide constants for runcheck.
package constants

// Application metadata
const (
	// AppName is the application name used in logs, configs, and user messages.
	AppName string = "runcheck"
	// AppDescription is a short description of the application.
	AppDescription string = "Run commands and assert on their output"
	// ConfigFileName is the configuration file name.
	ConfigFileName string = "config.yaml"
	// DefaultSuiteFile is the suite file looked up when "check" gets no path.
	DefaultSuiteFile string = "runcheck.yaml"
)

// ExitCode represents process exit codes for different termination scenarios.
type ExitCode int

const (
	// ExitSuccess indicates every check passed.
	ExitSuccess ExitCode = iota
	// ExitError indicates a general error, such as a command that could not start.
	ExitError
	// ExitValidation indicates invalid flags, configuration or suite files.
	ExitValidation
	// ExitCheckFailed indicates a pattern did not match or the exit status differed.
	ExitCheckFailed
	// ExitTimeout indicates a command exceeded its timeout.
	ExitTimeout
)

// Int returns the exit code as an int for use with os.Exit().
func (e ExitCode) Int() int {
	return int(e)
}

// String returns a short name for the exit code.
func (e ExitCode) String() string {
	switch e {
	case ExitSuccess:
		return "success"
	case ExitError:
		return "error"
	case ExitValidation:
		return "validation"
	case ExitCheckFailed:
		return "check-failed"
	case ExitTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}
