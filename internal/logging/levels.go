// Package logging provides leveled, structured logging for runcheck on top
// of charmbracelet/log. Console output goes to stderr so that it never mixes
// with the command output that runcheck prints on stdout.
package logging

import "strings"

// Level represents logging severity levels, ordered from most verbose
// (Debug) to least verbose (Error).
type Level int

const (
	// LevelDebug is for detailed debugging information, such as every
	// command line and pattern tried.
	LevelDebug Level = iota
	// LevelInfo is for general informational messages.
	LevelInfo
	// LevelWarn is for warnings such as failed checks.
	LevelWarn
	// LevelError is for errors that abort a run.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level, ignoring case.
// Unrecognized strings default to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// IsValidLevel reports whether s names a known level.
func IsValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
