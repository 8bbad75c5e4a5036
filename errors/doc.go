// Package errors provides the structured error type used across pipekit.
// Every failure carries a machine-readable ErrorCode, a human-readable
// message, optional details, and an optional cause reachable via Unwrap.
package errors
