package process

import (
	"fmt"
	"strings"

	goerrors "github.com/kbukum/pipekit/errors"
)

// Standard stream indices.
const (
	Stdin  = 0
	Stdout = 1
	Stderr = 2
)

// Mode says how one standard stream of the child is connected.
type Mode int

const (
	// ModeNone leaves the stream unconfigured. The child gets the null device.
	ModeNone Mode = iota
	// ModePipeRead connects a pipe the child reads from and the caller writes to.
	ModePipeRead
	// ModePipeWrite connects a pipe the child writes to and the caller reads from.
	ModePipeWrite
	// ModeInherit passes the host's own stream through to the child.
	ModeInherit
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModePipeRead:
		return "pipe-r"
	case ModePipeWrite:
		return "pipe-w"
	case ModeInherit:
		return "inherit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DescriptorSpec maps stream indices (Stdin, Stdout, Stderr) to their mode.
type DescriptorSpec [3]Mode

// DefaultSpec pipes all three standard streams.
func DefaultSpec() DescriptorSpec {
	return DescriptorSpec{Stdin: ModePipeRead, Stdout: ModePipeWrite, Stderr: ModePipeWrite}
}

// Piped reports whether stream i is connected to a pipe.
func (s DescriptorSpec) Piped(i int) bool {
	return s[i] == ModePipeRead || s[i] == ModePipeWrite
}

func (s DescriptorSpec) String() string {
	return fmt.Sprintf("{0:%s 1:%s 2:%s}", s[Stdin], s[Stdout], s[Stderr])
}

// Op names a stream operation that can be forwarded to a Process.
type Op int

const (
	OpEOF Op = iota
	OpReadChar
	OpReadRecord
	OpReadLine
	OpRead
	OpScan
	OpStat
	OpReadAll
	OpReadLineLimit
	OpMetadata
	OpWriteRecord
	OpWriteString
	OpWrite

	numOps
)

var opNames = [numOps]string{
	OpEOF:           "eof",
	OpReadChar:      "read_char",
	OpReadRecord:    "read_record",
	OpReadLine:      "read_line",
	OpRead:          "read",
	OpScan:          "scan",
	OpStat:          "stat",
	OpReadAll:       "read_all",
	OpReadLineLimit: "read_line_limit",
	OpMetadata:      "metadata",
	OpWriteRecord:   "write_record",
	OpWriteString:   "write_string",
	OpWrite:         "write",
}

func (o Op) String() string {
	if o >= 0 && o < numOps {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp looks up an operation by name.
func ParseOp(name string) (Op, bool) {
	for i, n := range opNames {
		if n == name {
			return Op(i), true
		}
	}
	return 0, false
}

// OpSet is a set of operations.
type OpSet uint32

// Ops builds a set from the given operations.
func Ops(ops ...Op) OpSet {
	var s OpSet
	for _, o := range ops {
		s |= 1 << uint(o)
	}
	return s
}

// Has reports whether o is in the set.
func (s OpSet) Has(o Op) bool {
	return o >= 0 && o < numOps && s&(1<<uint(o)) != 0
}

// List returns the members in declaration order.
func (s OpSet) List() []Op {
	var out []Op
	for o := Op(0); o < numOps; o++ {
		if s.Has(o) {
			out = append(out, o)
		}
	}
	return out
}

// ReadOps are the operations offered when the child is a data source.
var ReadOps = Ops(
	OpEOF, OpReadChar, OpReadRecord, OpReadLine, OpRead, OpScan,
	OpStat, OpReadAll, OpReadLineLimit, OpMetadata,
)

// WriteOps are the operations offered when the child is a data sink.
var WriteOps = Ops(OpWriteRecord, OpWriteString, OpStat, OpWrite, OpMetadata)

// Shape describes which streams a Process pipes and which operations it
// forwards. Target is the stream the forwarded operations act on.
type Shape struct {
	Name    string
	Streams DescriptorSpec
	Target  int
	Ops     OpSet
}

// Preset shapes.
var (
	// Duplex pipes every stream and forwards no operations; use the stream
	// accessors directly.
	Duplex = Shape{Name: "process", Streams: DefaultSpec(), Target: -1}

	// Source pipes only stdout and forwards read operations to it.
	Source = Shape{
		Name:    "input",
		Streams: DescriptorSpec{Stdout: ModePipeWrite},
		Target:  Stdout,
		Ops:     ReadOps,
	}

	// Sink pipes only stdin and forwards write operations to it.
	Sink = Shape{
		Name:    "output",
		Streams: DescriptorSpec{Stdin: ModePipeRead},
		Target:  Stdin,
		Ops:     WriteOps,
	}

	// ConsoleSink pipes stdin and lets the child write to the host's console.
	ConsoleSink = Shape{
		Name:    "console-output",
		Streams: DescriptorSpec{Stdin: ModePipeRead, Stdout: ModeInherit, Stderr: ModeInherit},
		Target:  Stdin,
		Ops:     WriteOps,
	}
)

// Shapes lists the preset shapes.
func Shapes() []Shape {
	return []Shape{Duplex, Source, Sink, ConsoleSink}
}

// ParseShape returns the preset with the given name. An empty name selects Duplex.
func ParseShape(name string) (Shape, error) {
	if name == "" {
		return Duplex, nil
	}
	for _, s := range Shapes() {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return Shape{}, goerrors.InvalidInput("shape", fmt.Sprintf("unknown process shape %q", name))
}

// validate checks that the target stream, if any, is piped in the direction
// its operations need.
func (s Shape) validate() error {
	if s.Target < 0 {
		if s.Ops != 0 {
			return fmt.Errorf("shape %q forwards operations without a target stream", s.Name)
		}
		return nil
	}
	if s.Target > Stderr {
		return fmt.Errorf("shape %q has invalid target stream %d", s.Name, s.Target)
	}
	want, wrong := ModePipeWrite, WriteOps&^Ops(OpStat, OpMetadata)
	if s.Target == Stdin {
		want, wrong = ModePipeRead, ReadOps&^Ops(OpStat, OpMetadata)
	}
	if s.Streams[s.Target] != want {
		return fmt.Errorf("shape %q targets stream %d which is %s, not %s", s.Name, s.Target, s.Streams[s.Target], want)
	}
	if bad := s.Ops & wrong; bad != 0 {
		return fmt.Errorf("shape %q forwards %v against stream %d", s.Name, bad.List(), s.Target)
	}
	return nil
}
