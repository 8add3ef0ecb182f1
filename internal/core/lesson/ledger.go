// Package lesson contains the pure Unit Ledger: aggregation over a contract's
// lessons, the cached summary format, and plan regeneration.
// This is part of the Functional Core - no I/O, only pure functions.
package lesson

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/lessonbook/internal/core/fault"
)

// DateLayout is the storage and input format of completion dates.
const DateLayout = "2006-01-02"

// Unit is one trackable lesson of a contract.
type Unit struct {
	ID          string
	ContractID  string
	Seq         int
	CompletedOn string // Empty string means not completed
	Available   bool
	Note        string
}

// Completed reports whether the unit counts as completed.
// Excluded units never complete, whatever their date field says.
func (u Unit) Completed() bool {
	return u.Available && u.CompletedOn != ""
}

// Aggregate is the live summary of a contract's units.
type Aggregate struct {
	CompletedAvailable int
	TotalAvailable     int
	TotalUnits         int
	Excluded           int
}

// Summarize computes the aggregate over units.
func Summarize(units []Unit) Aggregate {
	var agg Aggregate
	agg.TotalUnits = len(units)
	for _, u := range units {
		if !u.Available {
			agg.Excluded++
			continue
		}
		agg.TotalAvailable++
		if u.CompletedOn != "" {
			agg.CompletedAvailable++
		}
	}
	return agg
}

// Summary renders the cached "completed/available" string.
func (a Aggregate) Summary() string {
	return fmt.Sprintf("%d/%d", a.CompletedAvailable, a.TotalAvailable)
}

// CompletionDates returns the completion dates of completed available units,
// ordered ascending.
func CompletionDates(units []Unit) []string {
	dates := make([]string, 0, len(units))
	for _, u := range units {
		if u.Completed() {
			dates = append(dates, u.CompletedOn)
		}
	}
	sort.Strings(dates)
	return dates
}

// ParseDate validates a completion date. Empty input means "not completed".
func ParseDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid completion date %q (want YYYY-MM-DD)", s)
	}
	return t.Format(DateLayout), nil
}

// Outcome is a requested change to a single unit.
type Outcome struct {
	UnitID      string
	CompletedOn string
	Note        string
	Available   bool
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fault.Validation("%s", r.Reason)
}

// CanRecordOutcome evaluates whether an outcome is well-formed.
// Rules:
// - Unit ID is required
// - Completion date must parse as YYYY-MM-DD
// - An excluded unit cannot carry a completion date
func CanRecordOutcome(o Outcome) GuardResult {
	if o.UnitID == "" {
		return GuardResult{Allowed: false, Reason: "lesson id is required"}
	}
	if _, err := ParseDate(o.CompletedOn); err != nil {
		return GuardResult{Allowed: false, Reason: fmt.Sprintf("lesson %s: %v", o.UnitID, err)}
	}
	if !o.Available && o.CompletedOn != "" {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("lesson %s is excluded and cannot be completed", o.UnitID),
		}
	}
	return GuardResult{Allowed: true}
}

// Apply returns u with the outcome applied.
func Apply(u Unit, o Outcome) Unit {
	u.CompletedOn = o.CompletedOn
	u.Note = o.Note
	u.Available = o.Available
	return u
}
