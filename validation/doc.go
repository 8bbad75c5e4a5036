// Package validation checks configuration and caller input before it reaches
// a child process.
//
// Struct tag validation covers configuration structs such as
// process.FactoryConfig:
//
//	type FactoryConfig struct {
//	    Program string `mapstructure:"program" validate:"required"`
//	    Shape   string `mapstructure:"shape" validate:"omitempty,oneof=process input output console-output"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects errors for values that have no struct,
// such as environment entries given on the command line:
//
//	v := validation.New()
//	v.EnvName("env", key)
//	err := v.Error()
package validation
