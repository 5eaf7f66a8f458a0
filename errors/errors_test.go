package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad value")
	if !strings.Contains(err.Error(), "INVALID_INPUT") {
		t.Errorf("error string should contain code, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "bad value") {
		t.Errorf("error string should contain message, got %q", err.Error())
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := YieldFailed(cause)
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("error string should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetail(t *testing.T) {
	err := CheckpointMismatch("wrong token").WithDetail("stage", "yield")
	if err.Details["stage"] != "yield" {
		t.Errorf("detail not set: %v", err.Details)
	}
}

func TestHasCode(t *testing.T) {
	err := PipelineBroken()
	if !HasCode(err, ErrCodePipelineBroken) {
		t.Error("HasCode should match the error's code")
	}
	if HasCode(err, ErrCodeYieldFailed) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(stderrors.New("plain"), ErrCodePipelineBroken) {
		t.Error("HasCode should not match a plain error")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NotInitialized()); got != ErrCodeNotInitialized {
		t.Errorf("CodeOf = %s, want NOT_INITIALIZED", got)
	}
	if got := CodeOf(stderrors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %s, want INTERNAL_ERROR", got)
	}
}

func TestIsRetryableCode(t *testing.T) {
	if !IsRetryableCode(ErrCodeIO) {
		t.Error("IO errors should be retryable")
	}
	if IsRetryableCode(ErrCodeYieldFailed) {
		t.Error("yield failures should not be retryable")
	}
}

func TestCodeOf_Wrapped(t *testing.T) {
	inner := CheckpointCorrupted("truncated")
	wrapped := Internal(inner)
	// CodeOf sees the outermost AppError.
	if got := CodeOf(wrapped); got != ErrCodeInternal {
		t.Errorf("CodeOf = %s, want INTERNAL_ERROR", got)
	}
	if !HasCode(wrapped, ErrCodeInternal) {
		t.Error("HasCode should match the outer code")
	}
}
