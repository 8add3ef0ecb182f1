// Package appointment contains the pure business logic for the competitive
// appointment claim workflow: Open -> Assigned -> Accepted, Assigned -> Open.
// Guards are pure functions that evaluate preconditions without side effects.
package appointment

import (
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
)

// Status represents the state of an appointment.
type Status string

const (
	StatusOpen     Status = "open"
	StatusAssigned Status = "assigned"
	StatusAccepted Status = "accepted"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Err     error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	return fmt.Errorf("%s", r.Reason)
}

func deny(id string, from, to Status, kind error, reason string) GuardResult {
	return GuardResult{
		Allowed: false,
		Reason:  reason,
		Err:     fault.Transition("appointment", id, string(from), string(to), kind, reason),
	}
}

// AssignContext provides context for an administrator's nomination.
type AssignContext struct {
	AppointmentID   string
	Status          Status
	ActorIsAdmin    bool
	NomineeID       string
	NomineeIsWorker bool
}

// CanAssign evaluates whether an appointment can be assigned.
// Rules:
// - Only administrators nominate
// - The nominee must be an eligible worker
// - Status must be open
func CanAssign(ctx AssignContext) GuardResult {
	if !ctx.ActorIsAdmin {
		return deny(ctx.AppointmentID, ctx.Status, StatusAssigned, fault.ErrNotEligible, "only administrators may nominate a worker")
	}
	if !ctx.NomineeIsWorker {
		return deny(ctx.AppointmentID, ctx.Status, StatusAssigned, fault.ErrNotEligible,
			fmt.Sprintf("%s is not an eligible worker", ctx.NomineeID))
	}
	switch ctx.Status {
	case StatusOpen:
		return GuardResult{Allowed: true}
	case StatusAccepted:
		return deny(ctx.AppointmentID, ctx.Status, StatusAssigned, fault.ErrAlreadyClaimed, "appointment was already accepted")
	default:
		return deny(ctx.AppointmentID, ctx.Status, StatusAssigned, fault.ErrWrongState,
			fmt.Sprintf("can only assign open appointments (current status: %s)", ctx.Status))
	}
}

// AcceptContext provides context for a worker's claim.
type AcceptContext struct {
	AppointmentID string
	Status        Status
	ClaimedBy     string
	ActorID       string
	ActorIsWorker bool
}

// CanAccept evaluates whether the actor can accept (claim) an appointment.
// Rules:
// - Only workers accept
// - Accepted appointments are already claimed
// - Assigned appointments may only be accepted by the nominee
func CanAccept(ctx AcceptContext) GuardResult {
	if !ctx.ActorIsWorker {
		return deny(ctx.AppointmentID, ctx.Status, StatusAccepted, fault.ErrNotEligible, "only workers may accept appointments")
	}
	switch ctx.Status {
	case StatusOpen:
		return GuardResult{Allowed: true}
	case StatusAssigned:
		if ctx.ClaimedBy != ctx.ActorID {
			return deny(ctx.AppointmentID, ctx.Status, StatusAccepted, fault.ErrNotEligible,
				fmt.Sprintf("appointment is nominated to %s", ctx.ClaimedBy))
		}
		return GuardResult{Allowed: true}
	case StatusAccepted:
		return deny(ctx.AppointmentID, ctx.Status, StatusAccepted, fault.ErrAlreadyClaimed,
			fmt.Sprintf("appointment was accepted by %s", ctx.ClaimedBy))
	}
	return deny(ctx.AppointmentID, ctx.Status, StatusAccepted, fault.ErrWrongState, "unknown status")
}

// DeclineContext provides context for a nominee's decline.
type DeclineContext struct {
	AppointmentID string
	Status        Status
	ClaimedBy     string
	ActorID       string
}

// CanDecline evaluates whether the actor can decline a nomination.
// Rules:
// - Status must be assigned
// - Only the nominated worker may decline
func CanDecline(ctx DeclineContext) GuardResult {
	if ctx.Status != StatusAssigned {
		return deny(ctx.AppointmentID, ctx.Status, StatusOpen, fault.ErrWrongState,
			fmt.Sprintf("can only decline assigned appointments (current status: %s)", ctx.Status))
	}
	if ctx.ClaimedBy != ctx.ActorID {
		return deny(ctx.AppointmentID, ctx.Status, StatusOpen, fault.ErrNotEligible,
			fmt.Sprintf("only the nominated worker %s may decline", ctx.ClaimedBy))
	}
	return GuardResult{Allowed: true}
}
