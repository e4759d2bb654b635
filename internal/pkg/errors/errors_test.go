package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		notFound     bool
		conflict     bool
		invalidState bool
		status       int
	}{
		{name: "not found", err: NotFound("Plan"), notFound: true, status: http.StatusNotFound},
		{name: "conflict", err: Conflict("already active"), conflict: true, status: http.StatusConflict},
		{name: "invalid state", err: InvalidState("not active"), invalidState: true, status: http.StatusUnprocessableEntity},
		{name: "wrapped conflict", err: fmt.Errorf("create: %w", Conflict("dup")), conflict: true, status: http.StatusConflict},
		{name: "plain error", err: fmt.Errorf("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsConflict(tt.err); got != tt.conflict {
				t.Errorf("IsConflict() = %v, want %v", got, tt.conflict)
			}
			if got := IsInvalidState(tt.err); got != tt.invalidState {
				t.Errorf("IsInvalidState() = %v, want %v", got, tt.invalidState)
			}
			if appErr, ok := As(tt.err); ok && appErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", appErr.StatusCode, tt.status)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := DatabaseError("Failed to get plan", cause)

	if err.Error() != "Failed to get plan: connection refused" {
		t.Errorf("Error() = %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() did not return the internal error")
	}
}
