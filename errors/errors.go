// Package errors provides unified error handling for the data pipeline
// library. It implements structured error types with machine-readable codes
// and retryable detection.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// CodeOf returns the error code carried by err, or ErrCodeInternal when err
// is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// HasCode reports whether err carries the given error code.
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// --- Common Error Constructors ---

// NotInitialized creates a new AppError for a pipeline with no source bound.
func NotInitialized() *AppError {
	return &AppError{
		Code: ErrCodeNotInitialized, Message: "The data pipeline has no source bound. Initialize it before use.",
		Retryable: false,
	}
}

// PipelineBroken creates a new AppError for a pipeline that failed earlier.
func PipelineBroken() *AppError {
	return &AppError{
		Code: ErrCodePipelineBroken, Message: "The data pipeline failed earlier and must be reset before reuse.",
		Retryable: false,
	}
}

// YieldFailed creates a new AppError for a failing yield function.
func YieldFailed(cause error) *AppError {
	return &AppError{
		Code: ErrCodeYieldFailed, Message: "The yield function failed while constructing a nested pipeline.",
		Retryable: false, Cause: cause,
	}
}

// CheckpointMismatch creates a new AppError for a tape whose token layout
// does not match the reloading stage.
func CheckpointMismatch(reason string) *AppError {
	return &AppError{
		Code: ErrCodeCheckpointMismatch, Message: fmt.Sprintf("Checkpoint layout mismatch: %s", reason),
		Retryable: false,
	}
}

// CheckpointCorrupted creates a new AppError for a truncated or undecodable tape.
func CheckpointCorrupted(reason string) *AppError {
	return &AppError{
		Code: ErrCodeCheckpointCorrupted, Message: fmt.Sprintf("Checkpoint corrupted: %s", reason),
		Retryable: false,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Retryable: false, Cause: cause,
	}
}

// IO creates a new AppError for a filesystem or I/O failure.
func IO(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeIO, Message: fmt.Sprintf("I/O failure during %s.", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation}, Cause: cause,
	}
}
