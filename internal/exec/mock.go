package exec

import (
	"context"
	"sync"

	"github.com/tungetti/runcheck/internal/runresult"
)

// Response is a canned outcome returned by MockExecutor.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error // returned instead of a result when set
}

// MockExecutor is a test implementation of Executor that records calls
// and returns pre-configured responses. It is safe for concurrent use.
type MockExecutor struct {
	mu              sync.Mutex
	workDir         string
	responses       map[string]Response
	calls           []MockCall
	defaultResponse *Response
}

// MockCall records a call to the mock executor.
type MockCall struct {
	Command string   // Program name, or the full line for shell calls
	Args    []string // Arguments passed
	Shell   bool     // Whether a shell line was run
	Input   []byte   // Input provided to ExecuteWithInput
}

// NewMockExecutor creates a mock executor whose results report workDir as
// their working directory.
func NewMockExecutor(workDir string) *MockExecutor {
	return &MockExecutor{
		workDir:   workDir,
		responses: make(map[string]Response),
	}
}

// SetResponse sets the response for a program name or shell line.
func (m *MockExecutor) SetResponse(key string, resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[key] = resp
}

// SetDefaultResponse sets the response for keys without a specific one.
func (m *MockExecutor) SetDefaultResponse(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResponse = &resp
}

// Calls returns a copy of all recorded calls.
func (m *MockExecutor) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall{}, m.calls...)
}

// CallCount returns the number of calls made to the mock.
func (m *MockExecutor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastCall returns the most recent call, or an empty MockCall.
func (m *MockExecutor) LastCall() MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return MockCall{}
	}
	return m.calls[len(m.calls)-1]
}

// Reset clears recorded calls but keeps responses.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// WasCalled returns true if the given program or shell line was called.
func (m *MockExecutor) WasCalled(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, call := range m.calls {
		if call.Command == key {
			return true
		}
	}
	return false
}

// Execute implements Executor.
func (m *MockExecutor) Execute(ctx context.Context, cmd string, args ...string) (runresult.Result, error) {
	return m.record(MockCall{Command: cmd, Args: args}, CommandLine(cmd, args...))
}

// ExecuteShell implements Executor.
func (m *MockExecutor) ExecuteShell(ctx context.Context, line string) (runresult.Result, error) {
	return m.record(MockCall{Command: line, Shell: true}, line)
}

// ExecuteShellWithInput implements Executor.
func (m *MockExecutor) ExecuteShellWithInput(ctx context.Context, input []byte, line string) (runresult.Result, error) {
	return m.record(MockCall{Command: line, Shell: true, Input: input}, line)
}

// ExecuteWithInput implements Executor.
func (m *MockExecutor) ExecuteWithInput(ctx context.Context, input []byte, cmd string, args ...string) (runresult.Result, error) {
	return m.record(MockCall{Command: cmd, Args: args, Input: input}, CommandLine(cmd, args...))
}

func (m *MockExecutor) record(call MockCall, display string) (runresult.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)

	resp, ok := m.responses[call.Command]
	if !ok {
		if m.defaultResponse == nil {
			return runresult.New(display, m.workDir, "", "", 0), nil
		}
		resp = *m.defaultResponse
	}
	if resp.Err != nil {
		return runresult.Result{}, resp.Err
	}
	return runresult.New(display, m.workDir, resp.Stdout, resp.Stderr, resp.ExitCode), nil
}

// SuccessResponse returns a zero-exit response with the given stdout.
func SuccessResponse(stdout string) Response {
	return Response{Stdout: stdout}
}

// FailureResponse returns a response with the given exit code and stderr.
func FailureResponse(exitCode int, stderr string) Response {
	return Response{ExitCode: exitCode, Stderr: stderr}
}

// ErrorResponse returns a response that fails with err.
func ErrorResponse(err error) Response {
	return Response{Err: err}
}

var _ Executor = (*MockExecutor)(nil)
var _ Executor = (*RealExecutor)(nil)
