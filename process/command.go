package process

import (
	"slices"
	"strings"
)

// shellArgv is the interpreter used for Line commands.
var shellArgv = []string{"/bin/sh", "-c"}

// Command is the program a Process runs. It is either an argument vector,
// executed directly, or a single command line handed to the shell.
type Command struct {
	args  []string
	line  string
	shell bool
}

// Args returns a Command that executes argv[0] with the remaining arguments.
// argv[0] is looked up in the host PATH.
func Args(argv ...string) Command {
	args := make([]string, len(argv))
	copy(args, argv)
	return Command{args: args}
}

// Line returns a Command that runs s through /bin/sh -c. Quoting inside s is
// the caller's responsibility.
func Line(s string) Command {
	return Command{line: s, shell: true}
}

// IsLine reports whether the command is a shell command line.
func (c Command) IsLine() bool { return c.shell }

// Args returns a copy of the argument vector; nil for a Line command.
func (c Command) Args() []string { return slices.Clone(c.args) }

// Line returns the shell command line; empty for an argument vector.
func (c Command) Line() string { return c.line }

// Argv returns the argument vector actually spawned.
func (c Command) Argv() []string {
	if c.IsLine() {
		return append(slices.Clone(shellArgv), c.line)
	}
	return slices.Clone(c.args)
}

// Empty reports whether there is nothing to run.
func (c Command) Empty() bool {
	if c.IsLine() {
		return strings.TrimSpace(c.line) == ""
	}
	return len(c.args) == 0 || c.args[0] == ""
}

// Equal reports whether two commands are the same form with the same content.
func (c Command) Equal(o Command) bool {
	if c.IsLine() != o.IsLine() {
		return false
	}
	if c.IsLine() {
		return c.line == o.line
	}
	return slices.Equal(c.args, o.args)
}

// String renders the command for logs and error messages.
func (c Command) String() string {
	if c.IsLine() {
		return c.line
	}
	return strings.Join(c.args, " ")
}
