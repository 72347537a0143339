package suite

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/exec"
	"github.com/tungetti/runcheck/internal/runresult"
)

func intPtr(n int) *int { return &n }

func mockRunner(m *exec.MockExecutor, opts ...Option) (*Runner, *[]exec.Options) {
	var mu sync.Mutex
	var seen []exec.Options
	factory := func(o exec.Options) exec.Executor {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, o)
		return m
	}
	opts = append([]Option{WithExecutorFactory(factory)}, opts...)
	return NewRunner(exec.Options{Shell: "/bin/sh", Timeout: 1}, opts...), &seen
}

func TestRunner_AllPass(t *testing.T) {
	m := exec.NewMockExecutor("/box")
	m.SetResponse("vagrant status", exec.SuccessResponse("Current machine states:\ndefault   running (virtualbox)\n"))
	m.SetResponse("ansible-playbook", exec.Response{Stdout: "ok=3 changed=0 failed=0\n", Stderr: "[DEPRECATION WARNING]: x\n"})

	s, err := Parse([]byte(sampleSuite))
	require.NoError(t, err)

	r, seen := mockRunner(m)
	report := r.Run(context.Background(), s)

	require.Len(t, report.Checks, 2)
	assert.True(t, report.Passed(), "%+v", report.Checks)
	assert.Equal(t, "box provisioning", report.Suite)
	assert.Equal(t, 2, report.Count(StatusPassed))

	require.Len(t, *seen, 2)
	assert.Equal(t, "box", (*seen)[0].WorkDir)
	assert.Equal(t, "box/ansible", (*seen)[1].WorkDir)
	assert.Equal(t, []string{"ANSIBLE_NOCOLOR=1", "VAGRANT_DEFAULT_PROVIDER=virtualbox"}, (*seen)[0].Env)
	assert.Equal(t, s.Timeout, (*seen)[0].Timeout)
	assert.Equal(t, s.Checks[1].Timeout, (*seen)[1].Timeout)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Shell)
	assert.Equal(t, []string{"--check", "site.yml"}, calls[1].Args)
}

func TestRunner_Failures(t *testing.T) {
	m := exec.NewMockExecutor("/box")
	m.SetResponse("vagrant status", exec.FailureResponse(1, "VM not created\n"))

	s := &Suite{Checks: []Check{{
		Name:     "up",
		Run:      "vagrant status",
		ExitCode: intPtr(0),
		Expect:   []Expect{{Stdout: "*running*"}, {Stderr: "VM not created"}},
	}}}

	r, _ := mockRunner(m)
	report := r.Run(context.Background(), s)

	require.Len(t, report.Checks, 1)
	c := report.Checks[0]
	assert.Equal(t, StatusFailed, c.Status)
	require.Len(t, c.Failures, 2)
	assert.True(t, errors.IsCode(c.Failures[0], errors.ExitStatus))
	assert.Contains(t, c.Failures[0].Error(), "exit code 1, want 0")

	var matchErr *runresult.MatchError
	require.ErrorAs(t, c.Failures[1], &matchErr)
	assert.Equal(t, "*running*", matchErr.Pattern)
	require.NotNil(t, c.Result)
	assert.Equal(t, "VM not created\n", c.Result.Stderr())
	assert.False(t, report.Passed())
}

func TestRunner_ExecutionError(t *testing.T) {
	m := exec.NewMockExecutor("/")
	m.SetResponse("slow", exec.ErrorResponse(errors.New(errors.Timeout, "timed out")))

	s := &Suite{Checks: []Check{{Args: []string{"slow"}}, {Run: "echo next"}}}

	r, _ := mockRunner(m)
	report := r.Run(context.Background(), s)

	assert.Equal(t, StatusError, report.Checks[0].Status)
	assert.Nil(t, report.Checks[0].Result)
	assert.True(t, report.TimedOut())
	assert.Equal(t, StatusPassed, report.Checks[1].Status)
}

func TestRunner_FailFast(t *testing.T) {
	m := exec.NewMockExecutor("/")
	m.SetResponse("first", exec.FailureResponse(2, ""))

	s := &Suite{Checks: []Check{
		{Args: []string{"first"}, ExitCode: intPtr(0)},
		{Args: []string{"second"}},
	}}

	r, _ := mockRunner(m, WithFailFast(true))
	report := r.Run(context.Background(), s)

	assert.Equal(t, StatusFailed, report.Checks[0].Status)
	assert.Equal(t, StatusSkipped, report.Checks[1].Status)
	assert.Equal(t, 1, m.CallCount())
}

func TestRunner_CancelledContextSkips(t *testing.T) {
	m := exec.NewMockExecutor("/")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := mockRunner(m)
	report := r.Run(ctx, &Suite{Checks: []Check{{Run: "a"}, {Run: "b"}}})

	assert.Equal(t, 2, report.Count(StatusSkipped))
	assert.Zero(t, m.CallCount())
}

func TestRunner_Stdin(t *testing.T) {
	m := exec.NewMockExecutor("/")
	s := &Suite{Checks: []Check{
		{Name: "shell", Run: "cat", Stdin: "yes\n"},
		{Name: "argv", Args: []string{"cat", "-"}, Stdin: "no\n"},
	}}

	r, _ := mockRunner(m)
	r.Run(context.Background(), s)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.True(t, calls[0].Shell)
	assert.Equal(t, "cat", calls[0].Command)
	assert.Equal(t, []byte("yes\n"), calls[0].Input)
	assert.Equal(t, "cat", calls[1].Command)
	assert.Equal(t, []byte("no\n"), calls[1].Input)
}

func TestRunner_RealExecutor(t *testing.T) {
	dir := t.TempDir()
	s := &Suite{
		WorkDir: dir,
		Env:     map[string]string{"RUNCHECK_GREETING": "hello"},
		Checks: []Check{{
			Name:     "greets",
			Run:      "echo $RUNCHECK_GREETING from $(pwd); echo done >&2",
			ExitCode: intPtr(0),
			Expect:   []Expect{{Stdout: "hello from *"}, {Stderr: "done"}},
		}},
	}

	report := NewRunner(exec.DefaultOptions()).Run(context.Background(), s)

	require.Len(t, report.Checks, 1)
	assert.Equal(t, StatusPassed, report.Checks[0].Status, "%v %v", report.Checks[0].Failures, report.Checks[0].Err)
	assert.Equal(t, dir, report.Checks[0].Result.WorkDir())
}

func TestRunner_RealExecutor_ShellStdinRecordsLine(t *testing.T) {
	s := &Suite{Checks: []Check{{
		Name:   "sorted",
		Run:    "sort | head -n 1",
		Stdin:  "web\ndb\n",
		Expect: []Expect{{Stdout: "db"}},
	}}}

	report := NewRunner(exec.DefaultOptions()).Run(context.Background(), s)

	require.Len(t, report.Checks, 1)
	c := report.Checks[0]
	assert.Equal(t, StatusPassed, c.Status, "%v %v", c.Failures, c.Err)
	require.NotNil(t, c.Result)
	assert.Equal(t, "sort | head -n 1", c.Result.Command())
}

func TestEvaluate(t *testing.T) {
	res := runresult.New("c", "/", "ok\n", "", 0)

	assert.Empty(t, Evaluate(res, nil, nil))
	assert.Empty(t, Evaluate(res, intPtr(0), []runresult.Expectation{runresult.OnStdout("ok")}))

	failures := Evaluate(res, intPtr(1), []runresult.Expectation{runresult.OnStdout("ko"), runresult.OnStdout("ok")})
	require.Len(t, failures, 2)
	assert.True(t, errors.IsCode(failures[0], errors.ExitStatus))
	assert.True(t, errors.IsCode(failures[1], errors.Match))
}

func sampleReport() *Report {
	res := runresult.New("vagrant status", "/box", "default poweroff\n", "", 0)
	return &Report{
		Suite: "box",
		Checks: []CheckReport{
			{Name: "ok-check", Status: StatusPassed, Result: &res},
			{Name: "bad-check", Status: StatusFailed, Result: &res, Failures: []error{
				&runresult.MatchError{Stream: runresult.Stdout, Pattern: "*running*", Output: res.Stdout()},
			}},
			{Name: "err-check", Status: StatusError, Err: errors.New(errors.Execution, "cannot start")},
			{Name: "skip-check", Status: StatusSkipped},
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(), NewStyles(&buf, true), false))

	out := buf.String()
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "SKIP")
	assert.Contains(t, out, `could not match "*running*" in stdout`)
	assert.Contains(t, out, "cannot start")
	assert.Contains(t, out, "command: vagrant status")
	assert.Equal(t, 1, strings.Count(out, "command: vagrant status"), "passing result only shown when verbose")
	assert.Contains(t, out, "1 passed, 1 failed, 1 errors, 1 skipped")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderText_Verbose(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, sampleReport(), NewStyles(&buf, true), true))

	assert.Equal(t, 2, strings.Count(buf.String(), "command: vagrant status"))
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderYAML(&buf, sampleReport()))

	var decoded struct {
		Suite  string `yaml:"suite"`
		Passed int    `yaml:"passed"`
		Failed int    `yaml:"failed"`
		Checks []struct {
			Name     string            `yaml:"name"`
			Status   string            `yaml:"status"`
			Failures []string          `yaml:"failures"`
			Error    string            `yaml:"error"`
			Result   *runresult.Result `yaml:"result"`
		} `yaml:"checks"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "box", decoded.Suite)
	assert.Equal(t, 1, decoded.Passed)
	assert.Equal(t, 1, decoded.Failed)
	require.Len(t, decoded.Checks, 4)
	assert.Equal(t, "failed", decoded.Checks[1].Status)
	require.Len(t, decoded.Checks[1].Failures, 1)
	require.NotNil(t, decoded.Checks[1].Result)
	assert.Equal(t, "default poweroff\n", decoded.Checks[1].Result.Stdout())
	assert.Equal(t, "cannot start", decoded.Checks[2].Error)
	assert.Nil(t, decoded.Checks[3].Result)
}
