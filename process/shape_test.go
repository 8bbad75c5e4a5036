package process_test

import (
	"slices"
	"testing"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/process"
)

func TestPresetStreams(t *testing.T) {
	tests := []struct {
		shape  process.Shape
		spec   process.DescriptorSpec
		target int
	}{
		{process.Duplex, process.DefaultSpec(), -1},
		{process.Source, process.DescriptorSpec{process.ModeNone, process.ModePipeWrite, process.ModeNone}, process.Stdout},
		{process.Sink, process.DescriptorSpec{process.ModePipeRead, process.ModeNone, process.ModeNone}, process.Stdin},
		{process.ConsoleSink, process.DescriptorSpec{process.ModePipeRead, process.ModeInherit, process.ModeInherit}, process.Stdin},
	}
	for _, tc := range tests {
		t.Run(tc.shape.Name, func(t *testing.T) {
			if tc.shape.Streams != tc.spec {
				t.Errorf("streams = %s, want %s", tc.shape.Streams, tc.spec)
			}
			if tc.shape.Target != tc.target {
				t.Errorf("target = %d, want %d", tc.shape.Target, tc.target)
			}
		})
	}
}

func TestPresetOperations(t *testing.T) {
	wantRead := []string{
		"eof", "read_char", "read_record", "read_line", "read", "scan",
		"stat", "read_all", "read_line_limit", "metadata",
	}
	wantWrite := []string{"stat", "metadata", "write_record", "write_string", "write"}

	if got := names(process.Source.Ops); !slices.Equal(got, wantRead) {
		t.Errorf("source ops = %v, want %v", got, wantRead)
	}
	if got := names(process.Sink.Ops); !slices.Equal(got, wantWrite) {
		t.Errorf("sink ops = %v, want %v", got, wantWrite)
	}
	if process.ConsoleSink.Ops != process.Sink.Ops {
		t.Error("console sink should forward the same operations as sink")
	}
	if process.Duplex.Ops != 0 {
		t.Error("duplex should forward nothing")
	}
}

func names(s process.OpSet) []string {
	var out []string
	for _, op := range s.List() {
		out = append(out, op.String())
	}
	return out
}

func TestParseOp(t *testing.T) {
	for _, op := range process.ReadOps.List() {
		got, ok := process.ParseOp(op.String())
		if !ok || got != op {
			t.Errorf("ParseOp(%q) = %v, %v", op.String(), got, ok)
		}
	}
	if _, ok := process.ParseOp("fgets"); ok {
		t.Error("expected fgets to be unknown")
	}
	if got := process.Op(99).String(); got != "op(99)" {
		t.Errorf("unexpected name for out-of-range op: %q", got)
	}
}

func TestOpSet(t *testing.T) {
	s := process.Ops(process.OpWrite, process.OpEOF)
	if !s.Has(process.OpWrite) || !s.Has(process.OpEOF) {
		t.Error("expected members to be present")
	}
	if s.Has(process.OpRead) || s.Has(process.Op(-1)) {
		t.Error("unexpected member")
	}
	if got := s.List(); !slices.Equal(got, []process.Op{process.OpEOF, process.OpWrite}) {
		t.Errorf("List() = %v", got)
	}
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "process"},
		{"process", "process"},
		{"input", "input"},
		{"OUTPUT", "output"},
		{"console-output", "console-output"},
	}
	for _, tc := range tests {
		s, err := process.ParseShape(tc.in)
		if err != nil {
			t.Fatalf("ParseShape(%q): %v", tc.in, err)
		}
		if s.Name != tc.want {
			t.Errorf("ParseShape(%q) = %q, want %q", tc.in, s.Name, tc.want)
		}
	}

	_, err := process.ParseShape("sideways")
	wantCode(t, err, errors.ErrCodeInvalidInput)
}

func TestDescriptorSpec(t *testing.T) {
	spec := process.DefaultSpec()
	for i := range 3 {
		if !spec.Piped(i) {
			t.Errorf("default spec should pipe stream %d", i)
		}
	}
	if process.ConsoleSink.Streams.Piped(process.Stdout) {
		t.Error("inherited stream is not a pipe")
	}
	if got := spec.String(); got != "{0:pipe-r 1:pipe-w 2:pipe-w}" {
		t.Errorf("String() = %q", got)
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[process.State]string{
		process.StateUnopened: "unopened",
		process.StateOpen:     "open",
		process.StateClosed:   "closed",
	} {
		if state.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(state), state.String(), want)
		}
	}
}
