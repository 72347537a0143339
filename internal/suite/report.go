package suite

import (
	"time"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/runresult"
)

// Status is the outcome of one check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusError   Status = "error"
	StatusSkipped Status = "skipped"
)

// CheckReport is the outcome of one check. Result is nil when the command
// never produced one.
type CheckReport struct {
	Name     string
	Status   Status
	Result   *runresult.Result
	Failures []error
	Err      error
	Duration time.Duration
}

// Report is the outcome of a suite run.
type Report struct {
	Suite    string
	Checks   []CheckReport
	Duration time.Duration
}

// Count returns how many checks ended with status st.
func (r *Report) Count(st Status) int {
	n := 0
	for _, c := range r.Checks {
		if c.Status == st {
			n++
		}
	}
	return n
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	return r.Count(StatusPassed) == len(r.Checks)
}

// TimedOut reports whether any check errored with a timeout.
func (r *Report) TimedOut() bool {
	for _, c := range r.Checks {
		if c.Status == StatusError && errors.IsCode(c.Err, errors.Timeout) {
			return true
		}
	}
	return false
}

// checkRecord is the YAML form of a CheckReport.
type checkRecord struct {
	Name     string            `yaml:"name"`
	Status   Status            `yaml:"status"`
	Duration string            `yaml:"duration,omitempty"`
	Error    string            `yaml:"error,omitempty"`
	Failures []string          `yaml:"failures,omitempty"`
	Result   *runresult.Result `yaml:"result,omitempty"`
}

type reportRecord struct {
	Suite    string        `yaml:"suite,omitempty"`
	Passed   int           `yaml:"passed"`
	Failed   int           `yaml:"failed"`
	Errors   int           `yaml:"errors"`
	Skipped  int           `yaml:"skipped"`
	Duration string        `yaml:"duration"`
	Checks   []checkRecord `yaml:"checks"`
}

// MarshalYAML implements yaml.Marshaler.
func (r *Report) MarshalYAML() (interface{}, error) {
	rec := reportRecord{
		Suite:    r.Suite,
		Passed:   r.Count(StatusPassed),
		Failed:   r.Count(StatusFailed),
		Errors:   r.Count(StatusError),
		Skipped:  r.Count(StatusSkipped),
		Duration: r.Duration.Round(time.Millisecond).String(),
	}
	for _, c := range r.Checks {
		cr := checkRecord{Name: c.Name, Status: c.Status, Result: c.Result}
		if c.Status != StatusSkipped {
			cr.Duration = c.Duration.Round(time.Millisecond).String()
		}
		if c.Err != nil {
			cr.Error = c.Err.Error()
		}
		for _, f := range c.Failures {
			cr.Failures = append(cr.Failures, f.Error())
		}
		rec.Checks = append(rec.Checks, cr)
	}
	return rec, nil
}
