package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExecutionError_Error(t *testing.T) {
	if got := ErrElementNotFound.Error(); got != "element not found" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("shell closed")
	wrapped := ErrCommandFailed.WithCause(cause)
	if got := wrapped.Error(); got != "device command failed: shell closed" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExecutionError_Is(t *testing.T) {
	enriched := ErrInvalidCoordinate.WithDetails(map[string]interface{}{"x": -1})
	if !errors.Is(enriched, ErrInvalidCoordinate) {
		t.Error("detail-enriched copy should match its sentinel")
	}

	wrapped := fmt.Errorf("step failed: %w", ErrTimeout.WithCause(errors.New("deadline")))
	if !errors.Is(wrapped, ErrTimeout) {
		t.Error("wrapped copy should match its sentinel")
	}

	if errors.Is(ErrTimeout, ErrElementNotFound) {
		t.Error("different codes must not match")
	}
}

func TestExecutionError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrCommandFailed.WithCause(cause)
	if !errors.Is(err, cause) {
		t.Error("cause should be reachable through Unwrap")
	}
}

func TestExecutionError_WithDetailsMerges(t *testing.T) {
	base := ErrInvalidCoordinate.WithDetails(map[string]interface{}{"x": 1})
	merged := base.WithDetails(map[string]interface{}{"y": 2})

	if merged.Details["x"] != 1 || merged.Details["y"] != 2 {
		t.Errorf("details = %v", merged.Details)
	}
	// The original copy is untouched
	if _, ok := base.Details["y"]; ok {
		t.Error("WithDetails must not mutate the receiver")
	}
}

func TestExecutionError_WithMessage(t *testing.T) {
	err := ErrInvalidConfig.WithMessage("screen dimensions must be non-negative")
	if err.Error() != "screen dimensions must be non-negative" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("message override should keep the sentinel identity")
	}
}
