//go:build !unix

package exec

import "os/exec"

// setProcessGroup is a no-op where process groups are unavailable; only
// the direct child is killed on cancellation.
func setProcessGroup(c *exec.Cmd) {}
