package testing

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
	"testing"
	"time"
)

// ============================================================================
// Context Helpers
// ============================================================================

// TestContext returns a context that times out after 30 seconds and is
// cancelled when the test completes.
func TestContext(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ShortContext is TestContext with a 5 second timeout.
func ShortContext(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ============================================================================
// Skip Helpers
// ============================================================================

// SkipShort skips the test in short mode.
func SkipShort(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping test in short mode")
	}
}

// SkipWithoutProgram skips the test when name is not on PATH.
func SkipWithoutProgram(t testing.TB, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("skipping test: %s not found in PATH", name)
	}
}

// ============================================================================
// RecordingT - a testing.TB that records failures
// ============================================================================

// RecordingT wraps a real testing.TB but captures failures instead of
// reporting them, so assertion helpers can be tested on their failure path.
// FailNow marks the test failed without stopping the goroutine.
type RecordingT struct {
	testing.TB

	mu       sync.Mutex
	errors   []string
	failed   bool
	failNows int
}

// NewRecordingT wraps t.
func NewRecordingT(t testing.TB) *RecordingT {
	return &RecordingT{TB: t}
}

func (r *RecordingT) Helper() {}

func (r *RecordingT) Errorf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
	r.failed = true
}

func (r *RecordingT) Fatalf(format string, args ...interface{}) {
	r.Errorf(format, args...)
	r.FailNow()
}

func (r *RecordingT) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
}

func (r *RecordingT) FailNow() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = true
	r.failNows++
}

func (r *RecordingT) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Errors returns the recorded failure messages.
func (r *RecordingT) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.errors...)
}

// FailNowCalls returns how many times FailNow was called.
func (r *RecordingT) FailNowCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failNows
}
