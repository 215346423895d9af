package core

import (
	"encoding/json"
	"testing"
)

func TestStepStatusString(t *testing.T) {
	tests := []struct {
		status StepStatus
		want   string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusPassed, "passed"},
		{StatusFailed, "failed"},
		{StatusErrored, "errored"},
		{StepStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStepStatusIsTerminal(t *testing.T) {
	for _, s := range []StepStatus{StatusPassed, StatusFailed, StatusErrored} {
		if !s.IsTerminal() {
			t.Errorf("%v should be terminal", s)
		}
	}
	for _, s := range []StepStatus{StatusPending, StatusRunning} {
		if s.IsTerminal() {
			t.Errorf("%v should not be terminal", s)
		}
	}
}

func TestStepStatusMarshalJSON(t *testing.T) {
	data, err := json.Marshal(StatusPassed)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"passed"` {
		t.Errorf("marshal = %s", data)
	}
}

func TestErrorCategoryString(t *testing.T) {
	tests := []struct {
		cat  ErrorCategory
		want string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryAssertion, "assertion"},
		{ErrCategoryTimeout, "timeout"},
		{ErrCategoryConnection, "connection"},
		{ErrCategoryParse, "parse"},
		{ErrCategoryCapability, "capability"},
		{ErrCategoryConfig, "config"},
	}

	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
