// Package contract contains the pure business logic for contract lifecycle:
// the completion detector, status guards, and the transition planner.
// This is part of the Functional Core - no I/O, only pure functions.
package contract

import "github.com/example/lessonbook/internal/core/lesson"

// CompletionResult is the detector's verdict for a contract.
type CompletionResult struct {
	IsComplete         bool
	CompletedAvailable int
	TotalAvailable     int
	TotalUnits         int
	Excluded           int
}

// Evaluate applies the completion predicate to an aggregate:
// completedAvailable + excluded >= totalUnits and totalAvailable > 0.
// A contract with no available units never completes automatically.
func Evaluate(agg lesson.Aggregate) CompletionResult {
	return CompletionResult{
		IsComplete:         agg.TotalAvailable > 0 && agg.CompletedAvailable+agg.Excluded >= agg.TotalUnits,
		CompletedAvailable: agg.CompletedAvailable,
		TotalAvailable:     agg.TotalAvailable,
		TotalUnits:         agg.TotalUnits,
		Excluded:           agg.Excluded,
	}
}

// Summary renders the cached "completed/available" string for the result.
func (r CompletionResult) Summary() string {
	return lesson.Aggregate{
		CompletedAvailable: r.CompletedAvailable,
		TotalAvailable:     r.TotalAvailable,
		TotalUnits:         r.TotalUnits,
		Excluded:           r.Excluded,
	}.Summary()
}
