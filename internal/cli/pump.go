package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/process"
)

// hostStreams are the streams of the procpipe invocation itself.
type hostStreams struct {
	in       io.Reader
	out, err io.Writer
}

func streamsOf(cmd *cobra.Command) hostStreams {
	return hostStreams{in: cmd.InOrStdin(), out: cmd.OutOrStdout(), err: cmd.ErrOrStderr()}
}

// exitError carries a non-zero child status out of a command.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// finish turns the result of pump into the command's error.
func finish(code int, err error) error {
	switch {
	case err != nil:
		return err
	case code < 0:
		// Killed by a signal.
		return &exitError{code: 1}
	case code > 0:
		return &exitError{code: code}
	}
	return nil
}

// pump copies data between host streams and an open Process according to its
// shape, then closes it and returns the exit code.
func pump(ctx context.Context, p *process.Process, hs hostStreams) (int, error) {
	stop := forwardCancel(ctx, p.Handle())
	defer stop()

	var err error
	switch p.Shape().Target {
	case process.Stdout:
		_, err = io.Copy(hs.out, p)
	case process.Stdin:
		err = feed(ctx, p, hs.in)
	default:
		pumpDuplex(p, hs)
	}

	code, closeErr := p.Close()
	if err != nil {
		logger.Debug("stream copy failed", logger.MergeWithError(logger.Fields(logger.FieldProcessID, p.ID()), err))
		return code, errors.Join(err, closeErr)
	}
	return code, closeErr
}

// feed copies host input into the child until the input ends, the child
// exits or ctx is cancelled. Reading the host input cannot be interrupted, so
// the copy runs in the background and is abandoned in the latter two cases;
// it stops at its next write once Close has released the pipe.
func feed(ctx context.Context, p *process.Process, in io.Reader) error {
	stdin := p.Stdin()
	copied := make(chan error, 1)
	go func() {
		_, err := io.Copy(stdin, in)
		copied <- err
	}()

	select {
	case err := <-copied:
		if errors.Is(err, syscall.EPIPE) {
			return nil
		}
		return err
	case <-exited(p.Pid()):
	case <-ctx.Done():
	}
	return nil
}

// pumpDuplex feeds stdin in the background and returns once the child has
// closed both output streams.
func pumpDuplex(p *process.Process, hs hostStreams) {
	stdin := p.Stdin()
	go func() {
		_, _ = io.Copy(stdin, hs.in)
		_ = stdin.Close()
	}()

	var wg sync.WaitGroup
	for _, c := range []struct {
		dst io.Writer
		src io.Reader
	}{
		{hs.out, p.Stdout()},
		{hs.err, p.Stderr()},
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = io.Copy(c.dst, c.src)
		}()
	}
	wg.Wait()
}

// forwardCancel interrupts the child when ctx is cancelled. The returned func
// stops watching.
func forwardCancel(ctx context.Context, h *os.Process) func() {
	done := make(chan struct{})
	if h == nil {
		return func() {}
	}
	go func() {
		select {
		case <-ctx.Done():
			if err := h.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Warn("forwarding interrupt failed", logger.ErrorFields("signal", err))
			}
		case <-done:
		}
	}()
	return func() { close(done) }
}
