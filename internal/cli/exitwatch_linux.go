//go:build linux

package cli

import (
	"errors"

	"golang.org/x/sys/unix"
)

// exited returns a channel that is closed once the child pid has terminated.
// The child is not reaped; Process.Close still collects its status.
func exited(pid int) <-chan struct{} {
	done := make(chan struct{})
	if pid <= 0 {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		var info unix.Siginfo
		for {
			err := unix.Waitid(unix.P_PID, pid, &info, unix.WEXITED|unix.WNOWAIT, nil)
			if !errors.Is(err, unix.EINTR) {
				return
			}
		}
	}()
	return done
}
