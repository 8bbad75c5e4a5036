// Package version carries build information for pipekit binaries.
//
// Version, commit and build time are set at link time:
//
//	go build -ldflags "-X github.com/kbukum/pipekit/version.Version=1.2.0 \
//	    -X github.com/kbukum/pipekit/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/procpipe
//
// Values missing from ldflags are filled from the module build info when the
// binary was built from a VCS checkout.
package version
