package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Process lifecycle errors
const (
	// ErrCodeDirectoryNotFound indicates a working directory did not resolve to an existing directory.
	ErrCodeDirectoryNotFound ErrorCode = "DIRECTORY_NOT_FOUND"
	// ErrCodeSpawnFailed indicates the child process could not be started.
	ErrCodeSpawnFailed ErrorCode = "SPAWN_FAILED"
	// ErrCodeAlreadyOpened indicates an attempt to open a process that is already open.
	ErrCodeAlreadyOpened ErrorCode = "ALREADY_OPENED"
	// ErrCodeAlreadyClosed indicates use of a process that is not open.
	ErrCodeAlreadyClosed ErrorCode = "ALREADY_CLOSED"
)

// Stream operation errors
const (
	// ErrCodeUnsupported indicates a stream operation outside the allowed set.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"
	// ErrCodeInvalidArgument indicates a stream operation was called with bad arguments.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)
