//go:build unix

package exec

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts c in its own process group and makes context
// cancellation kill the whole group, so children of a shell die with it.
func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		err := syscall.Kill(-c.Process.Pid, syscall.SIGKILL)
		if err == syscall.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
}
