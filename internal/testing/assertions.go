package testing

import (
	"strings"
	"testing"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/exec"
	"github.com/tungetti/runcheck/internal/runresult"
)

// ============================================================================
// Result Assertions
// ============================================================================

// AssertMatch asserts that at least one line of the expectation's stream
// matches its pattern. On failure the match error and the rendered result
// are reported. It returns whether the assertion held.
func AssertMatch(t testing.TB, r runresult.Result, e runresult.Expectation) bool {
	t.Helper()

	if err := r.Match(e); err != nil {
		t.Errorf("%v\n\n%s", err, r)
		return false
	}
	return true
}

// AssertStdoutMatches is AssertMatch on standard output.
func AssertStdoutMatches(t testing.TB, r runresult.Result, pattern string) bool {
	t.Helper()
	return AssertMatch(t, r, runresult.OnStdout(pattern))
}

// AssertStderrMatches is AssertMatch on standard error.
func AssertStderrMatches(t testing.TB, r runresult.Result, pattern string) bool {
	t.Helper()
	return AssertMatch(t, r, runresult.OnStderr(pattern))
}

// AssertNoMatch asserts that no line of the stream matches. An invalid
// expectation is a failure.
func AssertNoMatch(t testing.TB, r runresult.Result, e runresult.Expectation) bool {
	t.Helper()

	err := r.Match(e)
	switch {
	case err == nil:
		t.Errorf("expected no line to match %s\n\n%s", e, r)
		return false
	case errors.IsCode(err, errors.Match):
		return true
	default:
		t.Errorf("%v", err)
		return false
	}
}

// AssertExitCode asserts the command exited with code.
func AssertExitCode(t testing.TB, r runresult.Result, code int) bool {
	t.Helper()

	if r.ExitCode() != code {
		t.Errorf("expected exit code %d, got %d\n\n%s", code, r.ExitCode(), r)
		return false
	}
	return true
}

// AssertSuccess asserts the command exited with status zero.
func AssertSuccess(t testing.TB, r runresult.Result) bool {
	t.Helper()
	return AssertExitCode(t, r, 0)
}

// RequireMatch is AssertMatch followed by t.FailNow on failure.
func RequireMatch(t testing.TB, r runresult.Result, e runresult.Expectation) {
	t.Helper()

	if !AssertMatch(t, r, e) {
		t.FailNow()
	}
}

// ============================================================================
// Error Assertions
// ============================================================================

// AssertErrorCode checks if an error has a specific error code.
func AssertErrorCode(t testing.TB, err error, expectedCode errors.Code) bool {
	t.Helper()

	if err == nil {
		t.Errorf("expected error with code %s, but got nil", expectedCode)
		return false
	}
	if actual := errors.GetCode(err); actual != expectedCode {
		t.Errorf("expected error code %s, but got %s (error: %v)", expectedCode, actual, err)
		return false
	}
	return true
}

// AssertErrorContains checks if error message contains a substring.
func AssertErrorContains(t testing.TB, err error, substring string) bool {
	t.Helper()

	if err == nil {
		t.Errorf("expected error containing %q, but got nil", substring)
		return false
	}
	if !strings.Contains(err.Error(), substring) {
		t.Errorf("expected error to contain %q, but got: %v", substring, err)
		return false
	}
	return true
}

// ============================================================================
// Executor Assertions
// ============================================================================

// AssertCommandCalled asserts the mock executor ran key, a program name or
// a full shell line.
func AssertCommandCalled(t testing.TB, m *exec.MockExecutor, key string) bool {
	t.Helper()

	if !m.WasCalled(key) {
		var seen []string
		for _, c := range m.Calls() {
			seen = append(seen, c.Command)
		}
		t.Errorf("expected %q to be called, calls were: %q", key, seen)
		return false
	}
	return true
}

// AssertCallCount asserts the mock executor received n calls.
func AssertCallCount(t testing.TB, m *exec.MockExecutor, n int) bool {
	t.Helper()

	if got := m.CallCount(); got != n {
		t.Errorf("expected %d calls, got %d", n, got)
		return false
	}
	return true
}

// ============================================================================
// Log Assertions
// ============================================================================

// AssertLogContains asserts some recorded message contains substring.
func AssertLogContains(t testing.TB, l *MockLogger, substring string) bool {
	t.Helper()

	if !l.ContainsMessage(substring) {
		var msgs []string
		for _, m := range l.Messages() {
			msgs = append(msgs, m.Message)
		}
		t.Errorf("expected a log message containing %q, got: %q", substring, msgs)
		return false
	}
	return true
}
