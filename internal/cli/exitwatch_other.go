//go:build !linux

package cli

// exited is not available here. The returned channel never fires, so a sink
// pump stops on end of input or cancellation only.
func exited(int) <-chan struct{} {
	return nil
}
