package contract

import (
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
)

// Status represents the lifecycle state of a contract.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", fault.Validation("unknown contract status %q", s)
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Err     error // typed cause, set when not allowed
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

// StatusChangeContext provides context for explicit status edits.
type StatusChangeContext struct {
	ContractID   string
	Current      Status
	Requested    Status
	ActorIsAdmin bool
}

// CanChangeStatus evaluates an explicit administrative status edit.
// Rules:
// - Only administrators may change contract status
// - Completed and cancelled contracts are terminal
// - Active -> Active is a no-op; active may move to completed or cancelled
func CanChangeStatus(ctx StatusChangeContext) GuardResult {
	if !ctx.ActorIsAdmin {
		reason := "only administrators may change contract status"
		return GuardResult{
			Allowed: false,
			Reason:  reason,
			Err:     fault.Transition("contract", ctx.ContractID, string(ctx.Current), string(ctx.Requested), fault.ErrNotEligible, reason),
		}
	}

	if ctx.Current.IsTerminal() {
		reason := fmt.Sprintf("contract is %s", ctx.Current)
		return GuardResult{
			Allowed: false,
			Reason:  reason,
			Err:     fault.Transition("contract", ctx.ContractID, string(ctx.Current), string(ctx.Requested), fault.ErrTerminalState, reason),
		}
	}

	return GuardResult{Allowed: true}
}

// EditContext provides context for non-status contract edits (plan, worker, note).
type EditContext struct {
	ContractID  string
	Current     Status
	PlanChanged bool
}

// CanEditContract evaluates whether structural fields may change.
// Rule: a terminal contract's plan cannot change, since regeneration could
// invalidate the completion it recorded.
func CanEditContract(ctx EditContext) GuardResult {
	if ctx.Current.IsTerminal() && ctx.PlanChanged {
		reason := fmt.Sprintf("cannot change plan of %s contract", ctx.Current)
		return GuardResult{
			Allowed: false,
			Reason:  reason,
			Err:     fault.Transition("contract", ctx.ContractID, string(ctx.Current), string(ctx.Current), fault.ErrTerminalState, reason),
		}
	}
	return GuardResult{Allowed: true}
}
