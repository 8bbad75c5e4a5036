package process

import (
	"maps"
	"slices"

	"github.com/kbukum/pipekit/validation"
)

// DefaultProgram is run by a Factory whose configuration names no program.
const DefaultProgram = "false"

// FactoryConfig describes a family of processes that share a program, its
// leading options, a working directory, an environment and a shape.
type FactoryConfig struct {
	Name    string            `yaml:"name" mapstructure:"name"`
	Dir     string            `yaml:"dir" mapstructure:"dir"`
	Program string            `yaml:"program" mapstructure:"program"`
	Options []string          `yaml:"options" mapstructure:"options"`
	Env     map[string]string `yaml:"env" mapstructure:"env" validate:"dive,keys,envname,endkeys"`
	Shape   string            `yaml:"shape" mapstructure:"shape" validate:"omitempty,oneof=process input output console-output"`
}

// ApplyDefaults fills in the program and shape.
func (c *FactoryConfig) ApplyDefaults() {
	if c.Program == "" {
		c.Program = DefaultProgram
	}
	if c.Shape == "" {
		c.Shape = Duplex.Name
	}
}

// Validate checks the configuration against its struct tags.
func (c *FactoryConfig) Validate() error {
	return validation.Validate(c)
}

// Factory creates processes that run the same program in the same directory
// and environment with different arguments. A Factory does not own the
// processes it creates.
type Factory struct {
	name    string
	dir     string
	program string
	options []string
	env     map[string]string
	shape   Shape
	opts    []Option
}

// NewFactory validates cfg and resolves its working directory. opts are
// applied to every Process the factory creates.
func NewFactory(cfg FactoryConfig, opts ...Option) (*Factory, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shape, err := ParseShape(cfg.Shape)
	if err != nil {
		return nil, err
	}
	dir, err := ResolveDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	return &Factory{
		name:    cfg.Name,
		dir:     dir,
		program: cfg.Program,
		options: slices.Clone(cfg.Options),
		env:     maps.Clone(cfg.Env),
		shape:   shape,
		opts:    slices.Clone(opts),
	}, nil
}

// Command returns the command Exec would run for args: the program, then the
// configured options, then args.
func (f *Factory) Command(args ...string) Command {
	argv := make([]string, 0, 1+len(f.options)+len(args))
	argv = append(argv, f.program)
	argv = append(argv, f.options...)
	argv = append(argv, args...)
	return Args(argv...)
}

// Exec creates and opens a new Process running Command(args...).
func (f *Factory) Exec(args ...string) (*Process, error) {
	return f.ExecWith(args)
}

// ExecWith is Exec with per-call options, applied after the factory's own.
func (f *Factory) ExecWith(args []string, opts ...Option) (*Process, error) {
	all := make([]Option, 0, 3+len(f.opts)+len(opts))
	all = append(all, WithDir(f.dir), WithEnv(f.env), WithShape(f.shape))
	all = append(all, f.opts...)
	all = append(all, opts...)
	return New(f.Command(args...), all...)
}

// WithShape returns a copy of the factory whose processes have shape s.
func (f *Factory) WithShape(s Shape) *Factory {
	c := *f
	c.shape = s
	return &c
}

// Name returns the configured factory name.
func (f *Factory) Name() string { return f.name }

// Dir returns the resolved working directory, or "" to use the caller's.
func (f *Factory) Dir() string { return f.dir }

// Program returns the program every Exec runs.
func (f *Factory) Program() string { return f.program }

// Options returns a copy of the arguments placed before each Exec's args.
func (f *Factory) Options() []string { return slices.Clone(f.options) }

// Env returns a copy of the child environment, or nil to inherit.
func (f *Factory) Env() map[string]string { return maps.Clone(f.env) }

// Shape returns the shape of the processes the factory creates.
func (f *Factory) Shape() Shape { return f.shape }
