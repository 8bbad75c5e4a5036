package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/observability"
	"github.com/kbukum/pipekit/process"
	"github.com/kbukum/pipekit/version"
)

const serviceName = "procpipe"

// Config is the procpipe configuration file.
//
//	name: procpipe
//	logging:
//	  level: info
//	telemetry:
//	  enabled: false
//	factories:
//	  greet:
//	    program: printf
//	    options: ["hello %s\n"]
//	    shape: input
//
// Factory names are case-insensitive and reported in lower case.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Telemetry            observability.Config             `yaml:"telemetry" mapstructure:"telemetry"`
	Factories            map[string]process.FactoryConfig `yaml:"factories,omitempty" mapstructure:"factories"`
}

// ApplyDefaults fills unset fields and names each factory after its key.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Environment
	}
	c.Telemetry.ApplyDefaults()

	for name, f := range c.Factories {
		if f.Name == "" {
			f.Name = name
		}
		f.ApplyDefaults()
		c.Factories[name] = f
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	for _, name := range c.FactoryNames() {
		f := c.Factories[name]
		if err := f.Validate(); err != nil {
			return fmt.Errorf("config.factories.%s: %w", name, err)
		}
	}
	return nil
}

// FactoryNames returns the configured factory names in sorted order.
func (c *Config) FactoryNames() []string {
	return slices.Sorted(maps.Keys(c.Factories))
}

// Factory builds the named factory.
func (c *Config) Factory(name string) (*process.Factory, error) {
	fc, ok := c.Factories[name]
	if !ok {
		return nil, errors.InvalidInput("factory", fmt.Sprintf("no factory named %q", name))
	}
	return process.NewFactory(fc)
}
