package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tungetti/runcheck/internal/runresult"
)

// ============================================================================
// Result Fixtures
// ============================================================================

// VagrantStatusRunning is the result of "vagrant status" on a running box.
func VagrantStatusRunning() runresult.Result {
	return runresult.New("vagrant status", "/srv/box", `Current machine states:

default                   running (virtualbox)

The VM is running. To stop this VM, you can run `+"`vagrant halt`"+` to
shut it down forcefully, or you can run `+"`vagrant suspend`"+` to simply
suspend the virtual machine.
`, "", 0)
}

// VagrantStatusNotCreated is the result of "vagrant status" before the box
// has been brought up.
func VagrantStatusNotCreated() runresult.Result {
	return runresult.New("vagrant status", "/srv/box", `Current machine states:

default                   not created (virtualbox)
`, "", 0)
}

// VagrantSSHFailure is a failed "vagrant ssh -c" invocation.
func VagrantSSHFailure() runresult.Result {
	return runresult.New("vagrant ssh -c 'systemctl is-active nginx'", "/srv/box",
		"inactive\n",
		"Connection to 127.0.0.1 closed.\n", 3)
}

// AnsibleRecap is an ansible-playbook run with warnings on stderr.
func AnsibleRecap() runresult.Result {
	return runresult.New("ansible-playbook --check site.yml", "/srv/box/ansible", `
PLAY [all] *********************************************************************

TASK [Gathering Facts] *********************************************************
ok: [default]

TASK [nginx : install] *********************************************************
ok: [default]

PLAY RECAP *********************************************************************
default                    : ok=2    changed=0    unreachable=0    failed=0    skipped=0
`, "[DEPRECATION WARNING]: The 'include' module is deprecated.\r\n", 0)
}

// EmptyResult is a command that printed nothing and succeeded.
func EmptyResult() runresult.Result {
	return runresult.New("true", "/", "", "", 0)
}

// ============================================================================
// Suite Fixtures
// ============================================================================

// PassingSuiteYAML is a suite whose checks pass on any POSIX shell.
const PassingSuiteYAML = `name: shell basics
checks:
  - name: echo
    run: echo hello world
    exit_code: 0
    expect:
      - stdout: "hello *"
  - name: stderr
    run: echo oops >&2; exit 3
    exit_code: 3
    expect:
      - stderr: "oops"
`

// FailingSuiteYAML is a suite with one passing and one failing check.
const FailingSuiteYAML = `name: shell failures
checks:
  - name: echo
    run: echo hello
  - name: wrong output
    run: echo goodbye
    expect:
      - stdout: "hello*"
`

// InvalidSuiteYAML fails validation: its only check sets both streams.
const InvalidSuiteYAML = `checks:
  - run: echo hi
    expect:
      - stdout: "hi"
        stderr: "hi"
`

// WriteSuite writes content as runcheck.yaml in a new temporary directory
// and returns the file path.
func WriteSuite(t testing.TB, content string) string {
	t.Helper()
	return NewTempDirBuilder().WithFile("runcheck.yaml", content).Build(t).Path("runcheck.yaml")
}

// ============================================================================
// TempDirBuilder - Create temporary directories with files for testing
// ============================================================================

// TempDirBuilder helps create temporary directories with files for testing.
type TempDirBuilder struct {
	files map[string]string
	dirs  []string
}

// NewTempDirBuilder creates a new TempDirBuilder.
func NewTempDirBuilder() *TempDirBuilder {
	return &TempDirBuilder{files: make(map[string]string)}
}

// WithFile adds a file with the given path and content.
// Path is relative to the temp directory root.
func (b *TempDirBuilder) WithFile(path, content string) *TempDirBuilder {
	b.files[path] = content
	return b
}

// WithDir adds an empty directory.
func (b *TempDirBuilder) WithDir(path string) *TempDirBuilder {
	b.dirs = append(b.dirs, path)
	return b
}

// TempDir is a directory built by TempDirBuilder. It is removed when the
// test completes.
type TempDir string

// Path joins elem onto the directory.
func (d TempDir) Path(elem ...string) string {
	return filepath.Join(append([]string{string(d)}, elem...)...)
}

// Build creates the directory with all configured files.
func (b *TempDirBuilder) Build(t testing.TB) TempDir {
	t.Helper()

	root := t.TempDir()
	for _, dir := range b.dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
	for path, content := range b.files {
		full := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file %s: %v", path, err)
		}
	}
	return TempDir(root)
}
