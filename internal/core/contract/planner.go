package contract

import (
	"strconv"
	"time"

	"github.com/example/lessonbook/internal/core/effects"
	"github.com/example/lessonbook/internal/core/notification"
)

// CompletionPlanInput contains pre-fetched data for the automatic completion check.
type CompletionPlanInput struct {
	ContractID        string
	WorkerID          string
	Status            Status
	WasComplete       bool
	Result            CompletionResult
	FulfilledNotified bool
	ActorID           string
	ActorIsAdmin      bool
}

// TransitionPlan is the outcome of a contract planner.
// Fire is false when the status stays as it is.
type TransitionPlan struct {
	Fire        bool
	From        Status
	To          Status
	CompletedAt *time.Time
	Effects     []effects.Effect
}

// PlanCompletion decides whether the detector's result fires Active -> Completed.
// Rules:
// - Only active contracts complete automatically
// - The predicate must hold now
// - No contract_fulfilled notification may exist yet for the contract
func PlanCompletion(in CompletionPlanInput, now time.Time) TransitionPlan {
	plan := TransitionPlan{From: in.Status, To: in.Status}
	if in.Status != StatusActive || !in.Result.IsComplete || in.FulfilledNotified {
		return plan
	}

	plan.Fire = true
	plan.To = StatusCompleted
	plan.CompletedAt = &now
	plan.Effects = []effects.Effect{
		fulfilledEffect(in.ContractID, in.WorkerID, in.ActorID, in.ActorIsAdmin, in.Result),
		effects.LogEffect{
			Level:   "info",
			Message: "contract completed automatically",
			Fields: map[string]any{
				"contract_id":  in.ContractID,
				"summary":      in.Result.Summary(),
				"was_complete": in.WasComplete,
			},
		},
	}
	return plan
}

// StatusChangeInput contains pre-fetched data for an explicit status edit.
type StatusChangeInput struct {
	ContractID   string
	WorkerID     string
	Current      Status
	Requested    Status
	Result       CompletionResult
	ActorID      string
	ActorIsAdmin bool
}

// PlanStatusChange plans an explicit administrative edit after CanChangeStatus
// allowed it. Active -> Completed fires contract_fulfilled; cancellation is silent.
func PlanStatusChange(in StatusChangeInput, now time.Time) TransitionPlan {
	plan := TransitionPlan{From: in.Current, To: in.Requested}
	if in.Current == in.Requested {
		return plan
	}

	plan.Fire = true
	switch in.Requested {
	case StatusCompleted:
		plan.CompletedAt = &now
		plan.Effects = append(plan.Effects, fulfilledEffect(in.ContractID, in.WorkerID, in.ActorID, in.ActorIsAdmin, in.Result))
	case StatusCancelled:
		plan.Effects = append(plan.Effects, effects.LogEffect{
			Level:   "info",
			Message: "contract cancelled",
			Fields:  map[string]any{"contract_id": in.ContractID, "actor_id": in.ActorID},
		})
	}
	return plan
}

func fulfilledEffect(contractID, workerID, actorID string, actorIsAdmin bool, r CompletionResult) effects.NotifyEffect {
	return effects.NotifyEffect{
		Event:        string(notification.TypeContractFulfilled),
		EntityType:   notification.EntityContract,
		EntityID:     contractID,
		ActorID:      actorID,
		ActorIsAdmin: actorIsAdmin,
		SubjectID:    workerID,
		Fields: map[string]string{
			"summary":   r.Summary(),
			"completed": strconv.Itoa(r.CompletedAvailable),
			"available": strconv.Itoa(r.TotalAvailable),
			"excluded":  strconv.Itoa(r.Excluded),
		},
	}
}
