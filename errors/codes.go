package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline state errors
const (
	// ErrCodeNotInitialized indicates an operation on a pipeline with no source bound.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"
	// ErrCodePipelineBroken indicates the pipeline failed earlier and must be reset.
	ErrCodePipelineBroken ErrorCode = "PIPELINE_BROKEN"
	// ErrCodeYieldFailed indicates a user-supplied yield function failed.
	ErrCodeYieldFailed ErrorCode = "YIELD_FAILED"
)

// Checkpoint errors
const (
	// ErrCodeCheckpointMismatch indicates a tape whose token layout does not
	// match what the reloading stage recorded.
	ErrCodeCheckpointMismatch ErrorCode = "CHECKPOINT_MISMATCH"
	// ErrCodeCheckpointCorrupted indicates a truncated or undecodable tape.
	ErrCodeCheckpointCorrupted ErrorCode = "CHECKPOINT_CORRUPTED"
)

// General errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeIO indicates a filesystem or I/O error.
	ErrCodeIO ErrorCode = "IO_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeIO:       true,
	ErrCodeInternal: false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
