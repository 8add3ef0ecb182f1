// Package fault defines the error taxonomy shared by the state machines.
// Sentinels are matched with errors.Is; TransitionError carries the entity
// and the attempted transition for user-visible messages.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrTerminalState is returned for any transition out of a terminal state.
	ErrTerminalState = errors.New("terminal state violation")

	// ErrAlreadyClaimed is returned when another worker won the claim race.
	ErrAlreadyClaimed = errors.New("already claimed")

	// ErrWrongState is returned when an operation is called out of order.
	ErrWrongState = errors.New("wrong state")

	// ErrNotEligible is returned when the actor may not perform the transition.
	ErrNotEligible = errors.New("not eligible")

	// ErrBusy is returned when the entity lock is held by another operation.
	ErrBusy = errors.New("busy")

	// ErrValidation is returned for malformed input before any lock is taken.
	ErrValidation = errors.New("validation failure")

	// ErrNotificationDispatch marks a best-effort notification failure.
	ErrNotificationDispatch = errors.New("notification dispatch failure")

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)

// TransitionError describes a failed state transition on a specific entity.
type TransitionError struct {
	Entity   string // "contract", "appointment", "lesson"
	EntityID string
	From     string
	To       string
	Reason   string
	Err      error
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s %s: %s -> %s: %v", e.Entity, e.EntityID, e.From, e.To, e.Err)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error { return e.Err }

// Transition builds a TransitionError.
func Transition(entity, entityID, from, to string, err error, reason string) *TransitionError {
	return &TransitionError{
		Entity:   entity,
		EntityID: entityID,
		From:     from,
		To:       to,
		Reason:   reason,
		Err:      err,
	}
}

// Validation wraps a message as an ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound wraps an entity reference as an ErrNotFound.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s %w", entity, id, ErrNotFound)
}

// Retryable reports whether the caller may retry against fresh state.
func Retryable(err error) bool {
	return errors.Is(err, ErrBusy) || errors.Is(err, ErrAlreadyClaimed) || errors.Is(err, ErrWrongState)
}
