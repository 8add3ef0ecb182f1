package lesson

import (
	"fmt"
	"reflect"
	"testing"
)

func makeUnits(total, excluded, completed int) []Unit {
	units := make([]Unit, total)
	for i := range units {
		units[i] = Unit{ID: fmt.Sprintf("LES-%04d", i+1), Seq: i + 1, Available: true}
	}
	for i := 0; i < excluded; i++ {
		units[total-1-i].Available = false
	}
	for i := 0; i < completed; i++ {
		units[i].CompletedOn = fmt.Sprintf("2026-03-%02d", 10-i)
	}
	return units
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		units []Unit
		want  Aggregate
	}{
		{
			name:  "empty",
			units: nil,
			want:  Aggregate{},
		},
		{
			name:  "ten units three excluded seven completed",
			units: makeUnits(10, 3, 7),
			want:  Aggregate{CompletedAvailable: 7, TotalAvailable: 7, TotalUnits: 10, Excluded: 3},
		},
		{
			name:  "partial progress",
			units: makeUnits(8, 0, 5),
			want:  Aggregate{CompletedAvailable: 5, TotalAvailable: 8, TotalUnits: 8, Excluded: 0},
		},
		{
			name: "excluded unit with stale date does not count",
			units: []Unit{
				{Seq: 1, Available: true, CompletedOn: "2026-01-01"},
				{Seq: 2, Available: false, CompletedOn: "2026-01-02"},
			},
			want: Aggregate{CompletedAvailable: 1, TotalAvailable: 1, TotalUnits: 2, Excluded: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.units)
			if got != tt.want {
				t.Errorf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregate_Summary(t *testing.T) {
	if got := Summarize(makeUnits(10, 3, 7)).Summary(); got != "7/7" {
		t.Errorf("Summary() = %q, want 7/7", got)
	}
	if got := (Aggregate{}).Summary(); got != "0/0" {
		t.Errorf("Summary() = %q, want 0/0", got)
	}
}

func TestCompletionDates_SortedAscending(t *testing.T) {
	units := makeUnits(5, 0, 3)
	got := CompletionDates(units)
	want := []string{"2026-03-08", "2026-03-09", "2026-03-10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CompletionDates() = %v, want %v", got, want)
	}
}

func TestCanRecordOutcome(t *testing.T) {
	tests := []struct {
		name        string
		outcome     Outcome
		wantAllowed bool
	}{
		{"completed available", Outcome{UnitID: "LES-0001", CompletedOn: "2026-02-01", Available: true}, true},
		{"cleared date", Outcome{UnitID: "LES-0001", Available: true}, true},
		{"excluded without date", Outcome{UnitID: "LES-0001", Available: false}, true},
		{"missing id", Outcome{CompletedOn: "2026-02-01", Available: true}, false},
		{"bad date", Outcome{UnitID: "LES-0001", CompletedOn: "01/02/2026", Available: true}, false},
		{"excluded with date", Outcome{UnitID: "LES-0001", CompletedOn: "2026-02-01", Available: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRecordOutcome(tt.outcome)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("CanRecordOutcome() Allowed = %v, want %v (reason %q)", result.Allowed, tt.wantAllowed, result.Reason)
			}
			if !tt.wantAllowed && result.Error() == nil {
				t.Error("CanRecordOutcome().Error() = nil, want error")
			}
		})
	}
}

func TestPlanRegeneration_DowngradeKeepsSurvivors(t *testing.T) {
	existing := makeUnits(10, 0, 8)

	plan, err := PlanRegeneration(existing, 8)
	if err != nil {
		t.Fatalf("PlanRegeneration() error = %v", err)
	}

	if len(plan.Keep) != 8 {
		t.Fatalf("Keep = %d units, want 8", len(plan.Keep))
	}
	for i, u := range plan.Keep {
		if u.Seq != i+1 || u.CompletedOn == "" {
			t.Errorf("Keep[%d] = %+v, want completed seq %d", i, u, i+1)
		}
	}
	if len(plan.Delete) != 2 || plan.Delete[0].Seq != 9 || plan.Delete[1].Seq != 10 {
		t.Errorf("Delete = %+v, want seqs 9,10", plan.Delete)
	}
	if plan.DiscardedCompleted != 0 {
		t.Errorf("DiscardedCompleted = %d, want 0", plan.DiscardedCompleted)
	}
	if len(plan.CreateSeqs) != 0 {
		t.Errorf("CreateSeqs = %v, want none", plan.CreateSeqs)
	}
	if w := plan.Warnings("CON-001"); w != nil {
		t.Errorf("Warnings() = %v, want none when no progress is discarded", w)
	}
}

func TestPlanRegeneration_DowngradeCountsDiscardedProgress(t *testing.T) {
	plan, err := PlanRegeneration(makeUnits(10, 0, 10), 9)
	if err != nil {
		t.Fatalf("PlanRegeneration() error = %v", err)
	}
	if plan.DiscardedCompleted != 1 {
		t.Errorf("DiscardedCompleted = %d, want 1", plan.DiscardedCompleted)
	}
	want := []string{"contract CON-002: plan change removed lesson 10 (1 with recorded completion)"}
	if got := plan.Warnings("CON-002"); !reflect.DeepEqual(got, want) {
		t.Errorf("Warnings() = %v, want %v", got, want)
	}
}

func TestPlanRegeneration_UpgradeCreatesMissing(t *testing.T) {
	plan, err := PlanRegeneration(makeUnits(4, 0, 2), 6)
	if err != nil {
		t.Fatalf("PlanRegeneration() error = %v", err)
	}
	if !reflect.DeepEqual(plan.CreateSeqs, []int{5, 6}) {
		t.Errorf("CreateSeqs = %v, want [5 6]", plan.CreateSeqs)
	}
	if !plan.Changed() {
		t.Error("Changed() = false, want true")
	}
	if plan.Warnings("CON-003") != nil {
		t.Error("upgrade should not warn")
	}
}

func TestPlanRegeneration_SameTotalIsNoop(t *testing.T) {
	plan, err := PlanRegeneration(makeUnits(5, 1, 2), 5)
	if err != nil {
		t.Fatalf("PlanRegeneration() error = %v", err)
	}
	if plan.Changed() {
		t.Errorf("Changed() = true for same total: %+v", plan)
	}
}

func TestPlanRegeneration_Rejects(t *testing.T) {
	if _, err := PlanRegeneration(nil, 0); err == nil {
		t.Error("expected error for zero total")
	}
	dup := []Unit{{Seq: 1}, {Seq: 1}}
	if _, err := PlanRegeneration(dup, 2); err == nil {
		t.Error("expected error for duplicate sequence")
	}
}
