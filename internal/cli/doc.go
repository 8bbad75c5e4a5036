// Package cli implements the procpipe command line.
//
// Global flags select the configuration and .env files and override the
// log level. Subcommands:
//
//	run [flags] -- program [args...]   run an ad hoc program with a given shape
//	exec NAME [args...]                run a configured factory
//	factories                          list configured factories
//	config                             print the effective configuration
//	version                            print version information
//
// run and exec pump the host's standard streams through the child according
// to its shape and exit with the child's status.
package cli
