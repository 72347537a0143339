// Package suite loads YAML check suites and runs them. A suite is a list of
// commands, each with optional exit status and output expectations:
//
//	name: box provisioning
//	workdir: ./box
//	timeout: 15m
//	checks:
//	  - name: box is up
//	    run: vagrant status
//	    exit_code: 0
//	    expect:
//	      - stdout: "default*running*"
//	  - name: playbook is clean
//	    args: [ansible-playbook, --check, site.yml]
//	    expect:
//	      - stdout: "*failed=0*"
//	      - stderr: "*DEPRECATION*"
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tungetti/runcheck/internal/errors"
	"github.com/tungetti/runcheck/internal/runresult"
)

// Suite is a named list of checks sharing a base directory and settings.
type Suite struct {
	Name    string            `yaml:"name"`
	WorkDir string            `yaml:"workdir"`
	Timeout time.Duration     `yaml:"timeout"`
	Env     map[string]string `yaml:"env"`
	Checks  []Check           `yaml:"checks"`

	// baseDir is the directory relative paths are resolved against.
	baseDir string
}

// Check is one command and the assertions made on its result.
type Check struct {
	Name     string        `yaml:"name"`
	Run      string        `yaml:"run"`
	Args     []string      `yaml:"args"`
	Cwd      string        `yaml:"cwd"`
	Stdin    string        `yaml:"stdin"`
	Timeout  time.Duration `yaml:"timeout"`
	ExitCode *int          `yaml:"exit_code"`
	Expect   []Expect      `yaml:"expect"`
}

// Expect holds one output expectation. Exactly one field must be set.
type Expect struct {
	Stdout string `yaml:"stdout"`
	Stderr string `yaml:"stderr"`
}

// Load reads and validates the suite file at path. Relative directories
// in the suite resolve against the file's directory.
func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.Execution
		if os.IsNotExist(err) {
			code = errors.NotFound
		}
		return nil, errors.Wrapf(code, err, "cannot read suite %s", path).WithOp("suite.Load")
	}

	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s.baseDir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates a suite from YAML. Relative directories
// resolve against the current directory.
func Parse(data []byte) (*Suite, error) {
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(errors.Parse, "malformed suite", err).WithOp("suite.Parse")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the suite for structural mistakes. Every problem found is
// reported in a single Validation error.
func (s *Suite) Validate() error {
	var problems []string
	if len(s.Checks) == 0 {
		problems = append(problems, "suite has no checks")
	}
	if s.Timeout < 0 {
		problems = append(problems, "suite timeout must not be negative")
	}

	seen := make(map[string]bool)
	for i, c := range s.Checks {
		label := c.Label(i)
		if seen[label] {
			problems = append(problems, fmt.Sprintf("%s: duplicate check name", label))
		}
		seen[label] = true

		switch {
		case c.Run == "" && len(c.Args) == 0:
			problems = append(problems, fmt.Sprintf("%s: one of run or args is required", label))
		case c.Run != "" && len(c.Args) > 0:
			problems = append(problems, fmt.Sprintf("%s: run and args are mutually exclusive", label))
		}
		if c.Timeout < 0 {
			problems = append(problems, fmt.Sprintf("%s: timeout must not be negative", label))
		}
		for j, e := range c.Expect {
			if _, err := e.Expectation(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: expect[%d]: %v", label, j, err))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Newf(errors.Validation, "invalid suite: %s", strings.Join(problems, "; ")).WithOp("suite.Validate")
}

// BaseDir returns the directory relative paths resolve against.
func (s *Suite) BaseDir() string {
	if s.baseDir == "" {
		return "."
	}
	return s.baseDir
}

// DirFor returns the working directory for c.
func (s *Suite) DirFor(c Check) string {
	dir := s.WorkDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.BaseDir(), dir)
	}
	if c.Cwd == "" {
		return filepath.Clean(dir)
	}
	if filepath.IsAbs(c.Cwd) {
		return filepath.Clean(c.Cwd)
	}
	return filepath.Join(dir, c.Cwd)
}

// EnvList returns the suite environment as sorted KEY=VALUE pairs.
func (s *Suite) EnvList() []string {
	if len(s.Env) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Label returns the check name, falling back to its command or position.
func (c Check) Label(i int) string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Run != "":
		return c.Run
	case len(c.Args) > 0:
		return fmt.Sprintf("%v", c.Args)
	default:
		return fmt.Sprintf("check[%d]", i)
	}
}

// Expectation converts e into a runresult.Expectation.
func (e Expect) Expectation() (runresult.Expectation, error) {
	return runresult.ExpectationFrom(e.Stdout, e.Stderr)
}

// Expectations converts all of c's expect entries. It fails on the first
// invalid entry.
func (c Check) Expectations() ([]runresult.Expectation, error) {
	out := make([]runresult.Expectation, 0, len(c.Expect))
	for _, e := range c.Expect {
		exp, err := e.Expectation()
		if err != nil {
			return nil, err
		}
		out = append(out, exp)
	}
	return out, nil
}
