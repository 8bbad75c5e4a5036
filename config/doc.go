// Package config loads service configuration from a YAML file, an optional
// .env file and prefixed environment variables.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Factories map[string]process.FactoryConfig `yaml:"factories" mapstructure:"factories"`
//	}
//
//	var cfg Config
//	err := config.Load("procpipe", &cfg, config.WithConfigFile(path))
//
// Environment variables override file values. They carry the service name
// as prefix and join nested keys with underscores, so PROCPIPE_LOGGING_LEVEL
// sets logging.level. Map-valued keys are read from files only.
package config
