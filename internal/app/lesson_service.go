package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/example/lessonbook/internal/core/contract"
	"github.com/example/lessonbook/internal/core/lesson"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// LessonServiceImpl implements the LessonService interface.
type LessonServiceImpl struct {
	guard    *Guard
	base     secondary.Repositories
	identity secondary.IdentityProvider
	executor EffectExecutor
	now      func() time.Time
}

// NewLessonService creates a new LessonService with injected dependencies.
func NewLessonService(
	guard *Guard,
	base secondary.Repositories,
	identity secondary.IdentityProvider,
	executor EffectExecutor,
) *LessonServiceImpl {
	return &LessonServiceImpl{
		guard:    guard,
		base:     base,
		identity: identity,
		executor: executor,
		now:      time.Now,
	}
}

// RecordOutcome applies one lesson outcome and re-evaluates its contract.
func (s *LessonServiceImpl) RecordOutcome(ctx context.Context, outcome primary.LessonOutcome) (*primary.RecordOutcomeResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	contractID, err := s.precheck(ctx, outcome)
	if err != nil {
		return nil, err
	}

	var resp *primary.RecordOutcomeResponse
	err = s.guard.Run(ctx, contractID, "lesson.record", func(ctx context.Context, repos secondary.Repositories) error {
		var err error
		resp, err = s.applyBatch(ctx, repos, contractID, actor, []primary.LessonOutcome{outcome}, func(int, error) {})
		return err
	})
	if err != nil {
		return nil, err
	}
	resp.LessonID = outcome.LessonID
	return resp, nil
}

// BulkUpdate applies outcomes grouped by contract, one lock scope per contract
// in order of first appearance. Item failures never abort the batch.
func (s *LessonServiceImpl) BulkUpdate(ctx context.Context, outcomes []primary.LessonOutcome) (*primary.BulkUpdateResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	resp := &primary.BulkUpdateResponse{}
	fail := func(index int, err error) {
		resp.ErrorCount++
		resp.Errors = append(resp.Errors, primary.BulkItemError{
			Index:    index,
			LessonID: outcomes[index].LessonID,
			Error:    err.Error(),
		})
	}

	type group struct {
		contractID string
		indexes    []int
	}
	var groups []*group
	byContract := map[string]*group{}
	for i, o := range outcomes {
		contractID, err := s.precheck(ctx, o)
		if err != nil {
			fail(i, err)
			continue
		}
		g, ok := byContract[contractID]
		if !ok {
			g = &group{contractID: contractID}
			byContract[contractID] = g
			groups = append(groups, g)
		}
		g.indexes = append(g.indexes, i)
	}

	for _, g := range groups {
		items := make([]primary.LessonOutcome, len(g.indexes))
		for j, idx := range g.indexes {
			items[j] = outcomes[idx]
		}

		var (
			contractResp *primary.RecordOutcomeResponse
			itemFailed   = map[int]bool{}
		)
		err := s.guard.Run(ctx, g.contractID, "lesson.bulk", func(ctx context.Context, repos secondary.Repositories) error {
			var err error
			contractResp, err = s.applyBatch(ctx, repos, g.contractID, actor, items, func(j int, itemErr error) {
				itemFailed[j] = true
				fail(g.indexes[j], itemErr)
			})
			return err
		})
		if err != nil {
			// The whole contract scope failed (lock contention or recompute);
			// report every item not already reported.
			for j, idx := range g.indexes {
				if !itemFailed[j] {
					fail(idx, err)
				}
			}
			continue
		}
		resp.SuccessCount += len(items) - len(itemFailed)
		resp.Contracts = append(resp.Contracts, contractResp)
	}

	sort.SliceStable(resp.Errors, func(i, j int) bool { return resp.Errors[i].Index < resp.Errors[j].Index })
	return resp, nil
}

// precheck validates an outcome and resolves its contract before any lock.
func (s *LessonServiceImpl) precheck(ctx context.Context, o primary.LessonOutcome) (string, error) {
	if o.LessonID == "" {
		return "", lesson.CanRecordOutcome(lesson.Outcome{}).Error()
	}
	if _, err := lesson.ParseDate(o.CompletedOn); err != nil {
		return "", lesson.CanRecordOutcome(lesson.Outcome{UnitID: o.LessonID, CompletedOn: o.CompletedOn, Available: true}).Error()
	}
	record, err := s.base.Lessons.GetByID(ctx, o.LessonID)
	if err != nil {
		return "", err
	}
	return record.ContractID, nil
}

// applyBatch applies items to one contract's lessons, each in its own
// savepoint, then recomputes the contract once.
func (s *LessonServiceImpl) applyBatch(
	ctx context.Context,
	repos secondary.Repositories,
	contractID string,
	actor *secondary.Actor,
	items []primary.LessonOutcome,
	onItemError func(j int, err error),
) (*primary.RecordOutcomeResponse, error) {
	record, err := repos.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	before, err := loadUnits(ctx, repos, contractID)
	if err != nil {
		return nil, err
	}
	wasComplete := contract.Evaluate(lesson.Summarize(before)).IsComplete

	applied := 0
	for j, item := range items {
		err := repos.Savepoint(ctx, "lesson_item", func(ctx context.Context) error {
			return s.applyOne(ctx, repos, item)
		})
		if err != nil {
			if len(items) == 1 {
				return nil, err
			}
			onItemError(j, err)
			continue
		}
		applied++
	}

	resp := &primary.RecordOutcomeResponse{ContractID: contractID}
	if applied == 0 {
		resp.Summary = record.Summary
		resp.Status = record.Status
		return resp, nil
	}

	result, err := recomputeContract(ctx, repos, s.executor, record, actor, wasComplete, s.now())
	if err != nil {
		return nil, err
	}
	resp.Summary = record.Summary
	resp.Status = record.Status
	resp.Completed = result.fired
	return resp, nil
}

func (s *LessonServiceImpl) applyOne(ctx context.Context, repos secondary.Repositories, item primary.LessonOutcome) error {
	rec, err := repos.Lessons.GetByID(ctx, item.LessonID)
	if err != nil {
		return err
	}

	o := lesson.Outcome{
		UnitID:      rec.ID,
		CompletedOn: item.CompletedOn,
		Note:        rec.Note,
		Available:   rec.Available,
	}
	if item.Note != nil {
		o.Note = *item.Note
	}
	if item.Available != nil {
		o.Available = *item.Available
	}
	if err := lesson.CanRecordOutcome(o).Error(); err != nil {
		return err
	}
	o.CompletedOn, _ = lesson.ParseDate(o.CompletedOn)

	u := lesson.Apply(recordToUnit(rec), o)
	rec.CompletedOn = u.CompletedOn
	rec.Note = u.Note
	rec.Available = u.Available
	rec.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if err := repos.Lessons.Update(ctx, rec); err != nil {
		return fmt.Errorf("failed to record outcome for %s: %w", rec.ID, err)
	}
	return nil
}

var _ primary.LessonService = (*LessonServiceImpl)(nil)
