package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"

	goerrors "github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/logger"
)

// State is the lifecycle position of a Process.
type State int

const (
	StateUnopened State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SpawnOption adjusts the exec.Cmd right before it is started.
type SpawnOption func(*exec.Cmd)

// WithWaitDelay bounds how long Close waits for I/O after the child exits.
// It matters when a SpawnOption points an unpiped stream at a non-file
// writer, which exec copies in the background until every holder of the
// stream, descendants included, has closed it.
func WithWaitDelay(d time.Duration) SpawnOption {
	return func(c *exec.Cmd) { c.WaitDelay = d }
}

// Option configures a Process at construction.
type Option func(*options)

type options struct {
	dir      string
	env      map[string]string
	shape    Shape
	deferred bool
	spawn    []SpawnOption
}

// WithDir sets the child's working directory. It must name an existing
// directory; it is resolved to an absolute path without symlinks.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithEnv replaces the child's environment. A nil map inherits the host's.
func WithEnv(env map[string]string) Option {
	return func(o *options) { o.env = env }
}

// WithShape selects which streams are piped and which operations are forwarded.
func WithShape(s Shape) Option {
	return func(o *options) { o.shape = s }
}

// Deferred keeps the Process unopened until Open is called.
func Deferred() Option {
	return func(o *options) { o.deferred = true }
}

// WithSpawnOptions adds options applied to the exec.Cmd on every Open.
func WithSpawnOptions(opts ...SpawnOption) Option {
	return func(o *options) { o.spawn = append(o.spawn, opts...) }
}

// Process is one child process and its piped standard streams.
//
// A Process is not safe for concurrent use.
type Process struct {
	id    string
	cmd   Command
	dir   string
	env   map[string]string
	shape Shape
	spawn []SpawnOption

	state    State
	exec     *exec.Cmd
	streams  [3]*os.File
	reader   *bufio.Reader
	eof      bool
	openedAt time.Time
	exitCode int
}

// New creates a Process for cmd and opens it unless Deferred is given.
func New(cmd Command, opts ...Option) (*Process, error) {
	o := options{shape: Duplex}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.shape.validate(); err != nil {
		return nil, goerrors.InvalidInput("shape", err.Error())
	}

	dir, err := ResolveDir(o.dir)
	if err != nil {
		return nil, err
	}

	p := &Process{
		id:    uuid.NewString(),
		cmd:   cmd,
		dir:   dir,
		env:   maps.Clone(o.env),
		shape: o.shape,
		spawn: slices.Clone(o.spawn),

		exitCode: -1,
	}
	if !o.deferred {
		if err := p.Open(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// With runs fn against a new open Process and closes it afterwards unless fn
// already did. It returns the exit code and the first error from
// construction, fn or Close.
func With(cmd Command, fn func(*Process) error, opts ...Option) (exitCode int, err error) {
	p, err := New(cmd, opts...)
	if err != nil {
		return -1, err
	}
	if p.State() == StateUnopened {
		if err := p.Open(); err != nil {
			return -1, err
		}
	}
	defer func() {
		if p.State() != StateOpen {
			exitCode = p.ExitCode()
			return
		}
		code, closeErr := p.Close()
		exitCode = code
		if err == nil {
			err = closeErr
		}
	}()
	return 0, fn(p)
}

// ResolveDir canonicalizes a working directory. An empty dir stays empty.
func ResolveDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", goerrors.DirectoryNotFound(dir).WithCause(err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", goerrors.DirectoryNotFound(dir).WithCause(err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", goerrors.DirectoryNotFound(dir).WithCause(err)
	}
	if !info.IsDir() {
		return "", goerrors.DirectoryNotFound(dir)
	}
	return resolved, nil
}

// Open starts the child. It is only valid on an unopened Process.
func (p *Process) Open() error {
	switch p.state {
	case StateOpen:
		return goerrors.AlreadyOpened(p.Pid())
	case StateClosed:
		return goerrors.AlreadyClosed("process")
	}

	ctx, span := startSpan(p, spanOpen)
	defer span.End()

	if p.cmd.Empty() {
		return p.spawnFailed(ctx, fmt.Errorf("empty command"))
	}

	argv := p.cmd.Argv()
	c := exec.Command(argv[0], argv[1:]...) //nolint:gosec // running caller-provided commands is the purpose of this package
	c.Dir = p.dir
	c.Env = envList(p.env)
	for _, opt := range p.spawn {
		opt(c)
	}

	var parent [3]*os.File
	var child []*os.File
	release := func() {
		for _, f := range child {
			f.Close()
		}
		for _, f := range parent {
			if f != nil {
				f.Close()
			}
		}
	}

	for i, mode := range p.shape.Streams {
		switch mode {
		case ModePipeRead:
			r, w, err := os.Pipe()
			if err != nil {
				release()
				return p.spawnFailed(ctx, err)
			}
			child, parent[i] = append(child, r), w
			attach(c, i, r)
		case ModePipeWrite:
			r, w, err := os.Pipe()
			if err != nil {
				release()
				return p.spawnFailed(ctx, err)
			}
			child, parent[i] = append(child, w), r
			attach(c, i, w)
		case ModeInherit:
			attach(c, i, hostStream(i))
		}
	}

	if err := c.Start(); err != nil {
		release()
		return p.spawnFailed(ctx, err)
	}
	for _, f := range child {
		f.Close()
	}

	p.exec = c
	p.streams = parent
	p.reader = nil
	p.eof = false
	p.state = StateOpen
	p.openedAt = time.Now()
	runtime.SetFinalizer(p, finalize)

	recordSpawn(ctx, p, span)
	plog().Debug("process opened", p.fields(logger.FieldPID, c.Process.Pid))
	return nil
}

// Close releases the streams, waits for the child and returns its exit code.
// The code is -1 if the child was terminated by a signal. A non-zero exit
// code is not an error.
func (p *Process) Close() (int, error) {
	if p.state != StateOpen {
		return -1, goerrors.AlreadyClosed("process")
	}
	runtime.SetFinalizer(p, nil)

	ctx, span := startSpan(p, spanClose)
	defer span.End()

	var errs []error
	// Stdin goes first so the child sees end of input before we wait on it.
	for _, i := range []int{Stdin, Stdout, Stderr} {
		if f := p.streams[i]; f != nil {
			if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
				errs = append(errs, fmt.Errorf("closing stream %d: %w", i, err))
			}
		}
	}

	code := -1
	waitErr := p.exec.Wait()
	if ps := p.exec.ProcessState; ps != nil {
		code = ps.ExitCode()
	}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil, errors.As(waitErr, &exitErr):
	case errors.Is(waitErr, exec.ErrWaitDelay):
		// The child exited; a descendant still holds a copied stream.
		plog().Debug("stream copy abandoned after wait delay", p.fields())
	default:
		errs = append(errs, waitErr)
	}

	lifetime := time.Since(p.openedAt)
	p.exec = nil
	p.streams = [3]*os.File{}
	p.reader = nil
	p.state = StateClosed
	p.exitCode = code

	recordExit(ctx, p, span, code, lifetime)

	fields := p.fields(logger.FieldExitCode, code, logger.FieldDuration, lifetime.Milliseconds())
	if err := errors.Join(errs...); err != nil {
		plog().Warn("process closed with errors", logger.MergeWithError(fields, err))
		return code, goerrors.Internal(err).WithDetail("exit_code", code)
	}
	plog().Debug("process closed", fields)
	return code, nil
}

// finalize closes a Process that became unreachable while open. Failures are
// logged and dropped.
func finalize(p *Process) {
	if p.state != StateOpen {
		return
	}
	// Close waits for the child; keep that off the finalizer goroutine.
	go func() {
		code, err := p.Close()
		fields := p.fields(logger.FieldExitCode, code)
		if err != nil {
			plog().Warn("implicit close failed", logger.MergeWithError(fields, err))
			return
		}
		plog().Warn("process was not closed explicitly", fields)
	}()
}

// ID returns the identifier used in logs and telemetry for this Process.
func (p *Process) ID() string { return p.id }

// Command returns the command as given at construction.
func (p *Process) Command() Command { return p.cmd }

// Dir returns the resolved working directory, or "" if none was given.
func (p *Process) Dir() string { return p.dir }

// Env returns a copy of the environment given at construction, or nil.
func (p *Process) Env() map[string]string { return maps.Clone(p.env) }

// Shape returns the stream shape of the Process.
func (p *Process) Shape() Shape { return p.shape }

// State returns the current lifecycle state.
func (p *Process) State() State { return p.state }

// ExitCode returns the code Close collected, or -1 before the Process is
// closed.
func (p *Process) ExitCode() int { return p.exitCode }

// Pid returns the child's process id, or -1 if not open.
func (p *Process) Pid() int {
	if p.state != StateOpen {
		return -1
	}
	return p.exec.Process.Pid
}

// Handle returns the OS process, or nil if not open. It can be used to signal
// the child, for instance to enforce a deadline.
func (p *Process) Handle() *os.Process {
	if p.state != StateOpen {
		return nil
	}
	return p.exec.Process
}

// Stdin returns the write end of the child's stdin pipe, or nil.
func (p *Process) Stdin() io.WriteCloser {
	if f := p.streams[Stdin]; f != nil {
		return f
	}
	return nil
}

// Stdout returns the read end of the child's stdout pipe, or nil.
func (p *Process) Stdout() io.ReadCloser {
	if f := p.streams[Stdout]; f != nil {
		return f
	}
	return nil
}

// Stderr returns the read end of the child's stderr pipe, or nil.
func (p *Process) Stderr() io.ReadCloser {
	if f := p.streams[Stderr]; f != nil {
		return f
	}
	return nil
}

func (p *Process) spawnFailed(ctx context.Context, cause error) error {
	err := goerrors.SpawnFailed(p.cmd.String(), cause)
	recordSpawnFailure(ctx, p, err)
	plog().Debug("process spawn failed", logger.MergeWithError(p.fields(), cause))
	return err
}

func (p *Process) fields(kvs ...interface{}) map[string]interface{} {
	f := logger.Fields(kvs...)
	f[logger.FieldProcessID] = p.id
	f[logger.FieldCommand] = p.cmd.String()
	f[logger.FieldShape] = p.shape.Name
	if p.dir != "" {
		f[logger.FieldDir] = p.dir
	}
	return f
}

func plog() *logger.Logger {
	return logger.Get("process")
}

func attach(c *exec.Cmd, i int, f *os.File) {
	switch i {
	case Stdin:
		c.Stdin = f
	case Stdout:
		c.Stdout = f
	case Stderr:
		c.Stderr = f
	}
}

func hostStream(i int) *os.File {
	switch i {
	case Stdin:
		return os.Stdin
	case Stdout:
		return os.Stdout
	default:
		return os.Stderr
	}
}

// envList renders env as KEY=value pairs sorted by key. A nil map yields nil,
// which makes the child inherit the host environment.
func envList(env map[string]string) []string {
	if env == nil {
		return nil
	}
	out := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		out = append(out, k+"="+env[k])
	}
	return out
}
