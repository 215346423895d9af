package core

import "encoding/json"

// StepStatus represents the execution status of a workflow step.
type StepStatus int

const (
	StatusPending StepStatus = iota // Not yet started
	StatusRunning                   // Currently executing
	StatusPassed                    // Completed successfully
	StatusFailed                    // Assertion or action failed
	StatusErrored                   // Unexpected error (transport, timeout, crash)
)

// String returns the string representation of StepStatus.
func (s StepStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusPassed:
		return "passed"
	case StatusFailed:
		return "failed"
	case StatusErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the status as its string form.
func (s StepStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// IsTerminal returns true if the status is a final state.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusErrored:
		return true
	default:
		return false
	}
}

// ErrorCategory classifies the type of error for debugging and reporting.
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryAssertion                       // Element not found, text mismatch
	ErrCategoryTimeout                         // Operation timed out
	ErrCategoryConnection                      // Device/command channel lost
	ErrCategoryParse                           // Dump line did not match any pattern
	ErrCategoryCapability                      // Operation not supported on the target
	ErrCategoryConfig                          // Invalid configuration, missing required field
)

// String returns the string representation of ErrorCategory.
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryParse:
		return "parse"
	case ErrCategoryCapability:
		return "capability"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}
