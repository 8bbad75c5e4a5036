//go:build !unix

package process

import "os/exec"

// NewProcessGroup is a no-op where process groups are not available.
func NewProcessGroup() SpawnOption {
	return func(*exec.Cmd) {}
}
