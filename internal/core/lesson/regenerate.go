package lesson

import "fmt"

// RegenerationPlan describes how to move a contract's units to a new plan total.
// Surviving sequence numbers keep their state; nothing is renumbered.
type RegenerationPlan struct {
	Keep               []Unit
	Delete             []Unit
	CreateSeqs         []int
	DiscardedCompleted int
}

// Changed reports whether the plan alters the unit set.
func (p RegenerationPlan) Changed() bool {
	return len(p.Delete) > 0 || len(p.CreateSeqs) > 0
}

// Warnings describes lossy parts of the plan for the caller. Removing lessons
// that never recorded a completion loses nothing and yields no warning.
func (p RegenerationPlan) Warnings(contractID string) []string {
	if len(p.Delete) == 0 || p.DiscardedCompleted == 0 {
		return nil
	}
	first, last := p.Delete[0].Seq, p.Delete[len(p.Delete)-1].Seq
	w := fmt.Sprintf("contract %s: plan change removed lessons %d-%d", contractID, first, last)
	if first == last {
		w = fmt.Sprintf("contract %s: plan change removed lesson %d", contractID, first)
	}
	w += fmt.Sprintf(" (%d with recorded completion)", p.DiscardedCompleted)
	return []string{w}
}

// PlanRegeneration computes the unit changes for a new total.
// existing may be in any order; Delete is returned ordered by sequence.
func PlanRegeneration(existing []Unit, newTotal int) (RegenerationPlan, error) {
	if newTotal <= 0 {
		return RegenerationPlan{}, fmt.Errorf("plan total must be positive, got %d", newTotal)
	}

	bySeq := make(map[int]Unit, len(existing))
	maxSeq := 0
	for _, u := range existing {
		if _, dup := bySeq[u.Seq]; dup {
			return RegenerationPlan{}, fmt.Errorf("duplicate lesson sequence %d", u.Seq)
		}
		bySeq[u.Seq] = u
		if u.Seq > maxSeq {
			maxSeq = u.Seq
		}
	}

	var plan RegenerationPlan
	for seq := 1; seq <= newTotal; seq++ {
		if u, ok := bySeq[seq]; ok {
			plan.Keep = append(plan.Keep, u)
		} else {
			plan.CreateSeqs = append(plan.CreateSeqs, seq)
		}
	}
	for seq := newTotal + 1; seq <= maxSeq; seq++ {
		u, ok := bySeq[seq]
		if !ok {
			continue
		}
		plan.Delete = append(plan.Delete, u)
		if u.Completed() {
			plan.DiscardedCompleted++
		}
	}
	return plan, nil
}

// NewUnits builds fresh available units for the given sequence numbers.
func NewUnits(contractID string, seqs []int) []Unit {
	units := make([]Unit, len(seqs))
	for i, seq := range seqs {
		units[i] = Unit{ContractID: contractID, Seq: seq, Available: true}
	}
	return units
}
