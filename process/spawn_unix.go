//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// NewProcessGroup starts the child in a process group of its own, so that a
// signal sent to the group through Handle reaches the child's descendants too.
func NewProcessGroup() SpawnOption {
	return func(c *exec.Cmd) {
		if c.SysProcAttr == nil {
			c.SysProcAttr = &syscall.SysProcAttr{}
		}
		c.SysProcAttr.Setpgid = true
	}
}
