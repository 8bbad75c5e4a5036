package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/kbukum/pipekit/errors"
	"github.com/kbukum/pipekit/process"
)

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{
		Factories: map[string]process.FactoryConfig{
			"zeta":  {Program: "cat"},
			"alpha": {},
		},
	}
	cfg.ApplyDefaults()

	if cfg.Name != serviceName || cfg.Environment != "development" {
		t.Errorf("unexpected service defaults %+v", cfg.ServiceConfig)
	}
	if cfg.Telemetry.ServiceName != serviceName || cfg.Telemetry.Environment != "development" {
		t.Errorf("telemetry should follow the service config, got %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.ServiceVersion != cfg.Version {
		t.Errorf("telemetry version %q, service version %q", cfg.Telemetry.ServiceVersion, cfg.Version)
	}

	alpha := cfg.Factories["alpha"]
	if alpha.Name != "alpha" || alpha.Program != process.DefaultProgram || alpha.Shape != process.Duplex.Name {
		t.Errorf("unexpected factory defaults %+v", alpha)
	}
	if got := cfg.FactoryNames(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("FactoryNames() = %v", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad environment", func(c *Config) { c.Environment = "moon" }, "environment"},
		{"bad sample rate", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.SampleRate = 2
		}, "config.telemetry"},
		{"bad factory env", func(c *Config) {
			c.Factories = map[string]process.FactoryConfig{"f": {Env: map[string]string{"A-B": "x"}}}
		}, "config.factories.f"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigFactory(t *testing.T) {
	cfg := &Config{Factories: map[string]process.FactoryConfig{"cat": {Program: "cat", Shape: "output"}}}
	cfg.ApplyDefaults()

	f, err := cfg.Factory("cat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name() != "cat" || f.Shape().Name != "output" {
		t.Errorf("unexpected factory %q %q", f.Name(), f.Shape().Name)
	}

	_, err = cfg.Factory("dog")
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
