package suite

import (
	"context"
	"time"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/exec"
	"github.com/tungetti/runcheck/internal/logging"
	"github.com/tungetti/runcheck/internal/runresult"
)

// ExecutorFactory builds an executor for one check from its options.
type ExecutorFactory func(opts exec.Options) exec.Executor

// Runner runs suites check by check.
type Runner struct {
	base        exec.Options
	newExecutor ExecutorFactory
	logger      logging.Logger
	failFast    bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutorFactory replaces the default factory, which builds a
// RealExecutor.
func WithExecutorFactory(f ExecutorFactory) Option {
	return func(r *Runner) { r.newExecutor = f }
}

// WithLogger sets the runner's logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithFailFast stops the run after the first check that does not pass.
func WithFailFast(on bool) Option {
	return func(r *Runner) { r.failFast = on }
}

// NewRunner creates a runner. base supplies the shell and default timeout;
// suites and checks may override the timeout and working directory.
func NewRunner(base exec.Options, opts ...Option) *Runner {
	r := &Runner{
		base:   base,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.newExecutor == nil {
		logger := r.logger
		r.newExecutor = func(o exec.Options) exec.Executor {
			return exec.NewExecutor(o, logger)
		}
	}
	return r
}

// Run executes every check of s in order and returns the report. Checks
// left unrun because of fail-fast or cancellation are marked skipped.
func (r *Runner) Run(ctx context.Context, s *Suite) *Report {
	report := &Report{Suite: s.Name}
	start := time.Now()
	log := r.logger.WithPrefix("suite")

	stop := false
	for i, c := range s.Checks {
		label := c.Label(i)
		if stop || ctx.Err() != nil {
			report.Checks = append(report.Checks, CheckReport{Name: label, Status: StatusSkipped})
			continue
		}

		cr := r.runCheck(ctx, s, c, label)
		report.Checks = append(report.Checks, cr)

		switch cr.Status {
		case StatusPassed:
			log.Info("check passed", "check", label)
		case StatusFailed:
			log.Warn("check failed", "check", label, "failures", len(cr.Failures))
		case StatusError:
			log.Error("check errored", "check", label, "err", cr.Err)
		}

		if r.failFast && cr.Status != StatusPassed {
			stop = true
		}
	}

	report.Duration = time.Since(start)
	return report
}

func (r *Runner) runCheck(ctx context.Context, s *Suite, c Check, label string) CheckReport {
	cr := CheckReport{Name: label}

	opts := r.base
	opts.WorkDir = s.DirFor(c)
	opts.Env = append(append([]string{}, r.base.Env...), s.EnvList()...)
	if s.Timeout > 0 {
		opts.Timeout = s.Timeout
	}
	if c.Timeout > 0 {
		opts.Timeout = c.Timeout
	}

	expectations, err := c.Expectations()
	if err != nil {
		cr.Status = StatusError
		cr.Err = errors.Wrapf(errors.Validation, err, "check %q", label).WithOp("suite.runCheck")
		return cr
	}

	executor := r.newExecutor(opts)
	start := time.Now()
	var res runresult.Result
	switch {
	case c.Run != "":
		if c.Stdin != "" {
			res, err = executor.ExecuteShellWithInput(ctx, []byte(c.Stdin), c.Run)
		} else {
			res, err = executor.ExecuteShell(ctx, c.Run)
		}
	default:
		if c.Stdin != "" {
			res, err = executor.ExecuteWithInput(ctx, []byte(c.Stdin), c.Args[0], c.Args[1:]...)
		} else {
			res, err = executor.Execute(ctx, c.Args[0], c.Args[1:]...)
		}
	}
	cr.Duration = time.Since(start)

	if err != nil {
		cr.Status = StatusError
		cr.Err = err
		return cr
	}
	cr.Result = &res
	cr.Failures = Evaluate(res, c.ExitCode, expectations)
	if len(cr.Failures) == 0 {
		cr.Status = StatusPassed
	} else {
		cr.Status = StatusFailed
	}
	return cr
}

// Evaluate checks res against an optional exit status and a list of
// expectations and returns every failure, in order.
func Evaluate(res runresult.Result, exitCode *int, expectations []runresult.Expectation) []error {
	var failures []error
	if exitCode != nil && res.ExitCode() != *exitCode {
		failures = append(failures, errors.Newf(errors.ExitStatus,
			"exit code %d, want %d", res.ExitCode(), *exitCode))
	}
	for _, e := range expectations {
		if err := res.Match(e); err != nil {
			failures = append(failures, err)
		}
	}
	return failures
}
