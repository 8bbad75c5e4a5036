package process_test

import (
	"slices"
	"testing"

	"github.com/kbukum/pipekit/process"
)

func TestArgsCommand(t *testing.T) {
	argv := []string{"grep", "-n", "needle"}
	c := process.Args(argv...)
	argv[0] = "mutated"

	if c.IsLine() {
		t.Fatal("Args command reported as line")
	}
	if got := c.Argv(); !slices.Equal(got, []string{"grep", "-n", "needle"}) {
		t.Errorf("Argv() = %v", got)
	}
	if c.String() != "grep -n needle" {
		t.Errorf("String() = %q", c.String())
	}

	args := c.Args()
	args[0] = "changed"
	if c.Args()[0] != "grep" {
		t.Error("Args() must return a copy")
	}
}

func TestLineCommand(t *testing.T) {
	c := process.Line("echo $HOME | tr a-z A-Z")
	if !c.IsLine() {
		t.Fatal("expected line command")
	}
	if c.Args() != nil {
		t.Errorf("expected nil Args(), got %v", c.Args())
	}
	want := []string{"/bin/sh", "-c", "echo $HOME | tr a-z A-Z"}
	if got := c.Argv(); !slices.Equal(got, want) {
		t.Errorf("Argv() = %v, want %v", got, want)
	}
}

func TestCommandEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b process.Command
		want bool
	}{
		{"same args", process.Args("a", "b"), process.Args("a", "b"), true},
		{"different args", process.Args("a", "b"), process.Args("a"), false},
		{"same line", process.Line("a b"), process.Line("a b"), true},
		{"line vs args", process.Line("a b"), process.Args("a", "b"), false},
		{"empty forms differ", process.Args(), process.Line(""), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal = %v, want %v", got, tc.want)
			}
		})
	}
}
