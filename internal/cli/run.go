package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipekit/process"
	"github.com/kbukum/pipekit/validation"
)

type runOptions struct {
	shape    string
	dir      string
	env      []string
	cleanEnv bool
	line     bool
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run [flags] -- program [args...]",
		Short: "Run a program and pump its streams to the terminal",
		Long: "Run starts program with the selected shape and copies standard input\n" +
			"into it and its output back out, then exits with the child's status.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(args); err != nil {
				return err
			}
			shape, err := process.ParseShape(opts.shape)
			if err != nil {
				return err
			}
			env, err := opts.environment()
			if err != nil {
				return err
			}

			command := process.Args(args...)
			if opts.line {
				command = process.Line(args[0])
			}

			p, err := process.New(command,
				process.WithShape(shape),
				process.WithDir(opts.dir),
				process.WithEnv(env),
				process.WithSpawnOptions(process.NewProcessGroup()),
			)
			if err != nil {
				return err
			}
			return finish(pump(cmd.Context(), p, streamsOf(cmd)))
		},
	}
	cmd.Flags().SetInterspersed(false)

	f := cmd.Flags()
	f.StringVar(&opts.shape, "shape", process.Duplex.Name, "Stream shape: process, input, output or console-output")
	f.StringVarP(&opts.dir, "dir", "C", "", "Working directory of the child")
	f.StringArrayVarP(&opts.env, "env", "e", nil, "Set KEY=VALUE in the child environment (repeatable)")
	f.BoolVar(&opts.cleanEnv, "clean-env", false, "Start the child with only the --env entries")
	f.BoolVar(&opts.line, "line", false, "Run the first argument as a /bin/sh command line")
	return cmd
}

func (o *runOptions) validate(args []string) error {
	v := validation.New()
	v.Required("program", args[0])
	v.OneOf("shape", strings.ToLower(o.shape), shapeNames())
	v.Custom(!o.line || len(args) == 1, "line", "takes a single command line argument")
	for _, kv := range o.env {
		v.Custom(strings.Contains(kv, "="), "env", fmt.Sprintf("%q must have the form KEY=VALUE", kv))
	}
	return v.Error()
}

// shapeNames lists the names --shape accepts.
func shapeNames() []string {
	var names []string
	for _, s := range process.Shapes() {
		names = append(names, s.Name)
	}
	return names
}

// environment returns nil when the child should inherit the host
// environment unchanged.
func (o *runOptions) environment() (map[string]string, error) {
	if len(o.env) == 0 && !o.cleanEnv {
		return nil, nil
	}
	overrides, err := validation.ParseEnv("env", o.env)
	if err != nil {
		return nil, err
	}
	env := map[string]string{}
	if !o.cleanEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				env[k] = v
			}
		}
	}
	for k, v := range overrides {
		env[k] = v
	}
	return env, nil
}
