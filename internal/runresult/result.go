// Package runresult models the outcome of a finished command and lets test
// code assert that its captured output matches glob patterns.
//
// A Result is a plain immutable value. It holds no process handles or open
// files, and all of its methods are safe for concurrent use.
package runresult

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Result is the record of one completed command invocation.
type Result struct {
	command  string
	workDir  string
	stdout   string
	stderr   string
	exitCode int
}

// New returns a Result for a command that has already finished. Values are
// stored as given; no validation is performed.
func New(command, workDir, stdout, stderr string, exitCode int) Result {
	return Result{
		command:  command,
		workDir:  workDir,
		stdout:   stdout,
		stderr:   stderr,
		exitCode: exitCode,
	}
}

// Command returns the command line that was run.
func (r Result) Command() string { return r.command }

// WorkDir returns the directory the command was run from.
func (r Result) WorkDir() string { return r.workDir }

// Stdout returns the full captured standard output.
func (r Result) Stdout() string { return r.stdout }

// Stderr returns the full captured standard error.
func (r Result) Stderr() string { return r.stderr }

// ExitCode returns the process exit status.
func (r Result) ExitCode() int { return r.exitCode }

// Success returns true if the command exited with status 0.
func (r Result) Success() bool {
	return r.exitCode == 0
}

// Failed returns true if the command exited with a non-zero status.
func (r Result) Failed() bool {
	return !r.Success()
}

// Output returns the captured text of the given stream.
// Unknown streams yield the empty string.
func (r Result) Output(s Stream) string {
	switch s {
	case Stdout:
		return r.stdout
	case Stderr:
		return r.stderr
	default:
		return ""
	}
}

// StdoutLines returns stdout split into lines, see SplitLines.
func (r Result) StdoutLines() []string {
	return SplitLines(r.stdout)
}

// StderrLines returns stderr split into lines, see SplitLines.
func (r Result) StderrLines() []string {
	return SplitLines(r.stderr)
}

// String renders the result for logs and failure messages. The layout is
// stable: command, working directory, exit code, stdout, stderr.
func (r Result) String() string {
	var b strings.Builder
	b.WriteString("CommandResult\n")
	fmt.Fprintf(&b, "command: %s\n", r.command)
	fmt.Fprintf(&b, "cwd: %s\n", r.workDir)
	fmt.Fprintf(&b, "exit code: %d\n", r.exitCode)
	writeBlock(&b, "stdout", r.stdout)
	writeBlock(&b, "stderr", r.stderr)
	return b.String()
}

func writeBlock(b *strings.Builder, label, text string) {
	b.WriteString(label)
	b.WriteString(":\n")
	b.WriteString(text)
	if text != "" && !strings.HasSuffix(text, "\n") {
		b.WriteByte('\n')
	}
}

// SplitLines splits text at line boundaries. "\n", "\r\n" and "\r" end a
// line, as do "\v", "\f", the separators U+001C to U+001E, NEL (U+0085),
// U+2028 and U+2029. Terminators are dropped, a trailing terminator does not
// produce an empty last line, and the empty string has no lines.
func SplitLines(text string) []string {
	lines := []string{}
	start := 0
	for i, r := range text {
		if i < start {
			// Second byte of a "\r\n" pair.
			continue
		}
		if !isLineBreak(r) {
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(text) && text[start] == '\n' {
			start++
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
