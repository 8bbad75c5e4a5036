// Package logger provides structured logging for pipekit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Logs go to stderr by
// default so that a child's stdout can be forwarded untouched.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("process")
//	log.Debug("process opened", logger.Fields("pid", pid))
package logger
