// Package process runs a single child process behind pipe-based standard
// streams and tracks its lifecycle (unopened, open, closed).
//
// A Shape decides which standard streams are piped and which stream
// operations a caller may perform through the Process. The presets mirror
// the common directions a child is used in:
//
//   - Duplex: stdin, stdout and stderr are all piped.
//   - Source: only stdout is piped; the child is read from.
//   - Sink: only stdin is piped; the child is written to.
//   - ConsoleSink: stdin is piped, stdout and stderr pass through to the host.
//
// # Usage
//
//	p, err := process.New(process.Args("git", "log", "--oneline"), process.WithShape(process.Source))
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	line, err := p.ReadLine()
//
// A Factory fixes program, leading options, directory and environment and
// produces a fresh open Process per Exec call.
package process
