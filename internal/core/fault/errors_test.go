package fault

import (
	"errors"
	"fmt"
	"testing"
)

func TestTransitionError_UnwrapsToSentinel(t *testing.T) {
	err := Transition("contract", "CON-001", "completed", "active", ErrTerminalState, "")

	if !errors.Is(err, ErrTerminalState) {
		t.Fatalf("errors.Is(%v, ErrTerminalState) = false, want true", err)
	}

	wrapped := fmt.Errorf("failed to save contract: %w", err)
	var te *TransitionError
	if !errors.As(wrapped, &te) {
		t.Fatal("errors.As did not find TransitionError")
	}
	if te.EntityID != "CON-001" {
		t.Errorf("EntityID = %q, want CON-001", te.EntityID)
	}
}

func TestTransitionError_Message(t *testing.T) {
	err := Transition("appointment", "APPT-002", "assigned", "accepted", ErrNotEligible, "nominated worker is W-2")
	want := "appointment APPT-002: assigned -> accepted: not eligible (nominated worker is W-2)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrBusy, true},
		{ErrAlreadyClaimed, true},
		{ErrWrongState, true},
		{ErrTerminalState, false},
		{Validation("plan %s unknown", "P-9"), false},
		{NotFound("contract", "CON-404"), false},
	}
	for _, tt := range tests {
		if got := Retryable(tt.err); got != tt.want {
			t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
