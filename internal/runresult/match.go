package runresult

import (
	"fmt"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/glob"
)

// Stream identifies one of the two captured output streams.
type Stream int

const (
	// Stdout selects the captured standard output.
	Stdout Stream = iota + 1
	// Stderr selects the captured standard error.
	Stderr
)

// String returns "stdout", "stderr" or "unknown".
func (s Stream) String() string {
	switch s {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "unknown"
	}
}

// IsValid returns true for Stdout and Stderr.
func (s Stream) IsValid() bool {
	return s == Stdout || s == Stderr
}

// ParseStream converts "stdout" or "stderr" to a Stream.
func ParseStream(s string) (Stream, error) {
	switch s {
	case "stdout":
		return Stdout, nil
	case "stderr":
		return Stderr, nil
	default:
		return 0, &UsageError{Reason: fmt.Sprintf("unknown stream %q", s)}
	}
}

// Expectation pairs a glob pattern with the stream it must match.
type Expectation struct {
	Stream  Stream
	Pattern string
}

// OnStdout returns an expectation on standard output.
func OnStdout(pattern string) Expectation {
	return Expectation{Stream: Stdout, Pattern: pattern}
}

// OnStderr returns an expectation on standard error.
func OnStderr(pattern string) Expectation {
	return Expectation{Stream: Stderr, Pattern: pattern}
}

// ExpectationFrom builds an expectation from a pair of optional patterns,
// as found in suite files and CLI flags. Exactly one of them must be
// non-empty.
func ExpectationFrom(onStdout, onStderr string) (Expectation, error) {
	switch {
	case onStdout != "" && onStderr != "":
		return Expectation{}, &UsageError{Reason: "both stdout and stderr patterns given, want exactly one"}
	case onStdout != "":
		return OnStdout(onStdout), nil
	case onStderr != "":
		return OnStderr(onStderr), nil
	default:
		return Expectation{}, &UsageError{Reason: "neither stdout nor stderr pattern given, want exactly one"}
	}
}

// Validate reports a *UsageError when the stream is unknown or the pattern
// is empty.
func (e Expectation) Validate() error {
	if !e.Stream.IsValid() {
		return &UsageError{Reason: fmt.Sprintf("unknown stream %d", int(e.Stream))}
	}
	if e.Pattern == "" {
		return &UsageError{Reason: "empty " + e.Stream.String() + " pattern"}
	}
	return nil
}

// String renders the expectation as "stream~pattern".
func (e Expectation) String() string {
	return fmt.Sprintf("%s~%q", e.Stream, e.Pattern)
}

// Match checks that at least one line of the selected stream matches the
// expectation's glob pattern. The whole line must match. It returns a
// *UsageError for an invalid expectation and a *MatchError when no line
// matches.
func (r Result) Match(e Expectation) error {
	if err := e.Validate(); err != nil {
		return err
	}

	output := r.Output(e.Stream)
	p := glob.Compile(e.Pattern)
	for _, line := range SplitLines(output) {
		if p.Match(line) {
			return nil
		}
	}
	return &MatchError{Stream: e.Stream, Pattern: e.Pattern, Output: output}
}

// MatchStdout is shorthand for Match(OnStdout(pattern)).
func (r Result) MatchStdout(pattern string) error {
	return r.Match(OnStdout(pattern))
}

// MatchStderr is shorthand for Match(OnStderr(pattern)).
func (r Result) MatchStderr(pattern string) error {
	return r.Match(OnStderr(pattern))
}

// MatchAll checks every expectation in order and returns the first failure.
func (r Result) MatchAll(es ...Expectation) error {
	for _, e := range es {
		if err := r.Match(e); err != nil {
			return err
		}
	}
	return nil
}

// UsageError reports a match call with an invalid argument combination.
// It is a programming mistake in the caller, not an assertion failure.
type UsageError struct {
	Reason string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return "runresult: invalid match: " + e.Reason
}

// Unwrap ties the error to errors.ErrUsage so that errors.IsCode(err,
// errors.Usage) holds.
func (e *UsageError) Unwrap() error {
	return errors.ErrUsage
}

// MatchError reports that no line of Output matched Pattern.
type MatchError struct {
	Stream  Stream
	Pattern string
	Output  string // the complete text that was searched
}

// Error implements the error interface. The message includes the full
// searched output.
func (e *MatchError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("could not match %q in %s: output is empty", e.Pattern, e.Stream)
	}
	return fmt.Sprintf("could not match %q in %s:\n%s", e.Pattern, e.Stream, e.Output)
}

// Unwrap ties the error to errors.ErrNoMatch so that errors.IsCode(err,
// errors.Match) holds.
func (e *MatchError) Unwrap() error {
	return errors.ErrNoMatch
}
