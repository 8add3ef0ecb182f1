package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/lessonbook/internal/core/contract"
	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/core/lesson"
	"github.com/example/lessonbook/internal/core/notification"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// ContractServiceImpl implements the ContractService interface.
type ContractServiceImpl struct {
	guard    *Guard
	base     secondary.Repositories
	identity secondary.IdentityProvider
	executor EffectExecutor
	now      func() time.Time
}

// NewContractService creates a new ContractService with injected dependencies.
// base serves reads and pre-lock validation outside any unit of work.
func NewContractService(
	guard *Guard,
	base secondary.Repositories,
	identity secondary.IdentityProvider,
	executor EffectExecutor,
) *ContractServiceImpl {
	return &ContractServiceImpl{
		guard:    guard,
		base:     base,
		identity: identity,
		executor: executor,
		now:      time.Now,
	}
}

// SaveContract creates or updates a contract.
func (s *ContractServiceImpl) SaveContract(ctx context.Context, req primary.SaveContractRequest) (*primary.SaveContractResponse, error) {
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("only administrators may save contracts: %w", fault.ErrNotEligible)
	}
	if err := s.validateSave(ctx, req); err != nil {
		return nil, err
	}

	resp := &primary.SaveContractResponse{ContractID: req.ContractID}
	save := func(ctx context.Context, contractID string, repos secondary.Repositories) error {
		var (
			record      *secondary.ContractRecord
			wasComplete bool
			err         error
		)
		if req.IsUpdate {
			record, wasComplete, err = s.applyUpdate(ctx, repos, req, resp)
		} else {
			record, err = s.create(ctx, repos, contractID, req)
		}
		if err != nil {
			return err
		}

		result, err := recomputeContract(ctx, repos, s.executor, record, actor, wasComplete, s.now())
		if err != nil {
			return err
		}
		resp.Summary = record.Summary
		resp.Status = record.Status
		resp.Completed = result.fired
		return nil
	}

	if req.IsUpdate {
		err = s.guard.Run(ctx, req.ContractID, "contract.save", func(ctx context.Context, repos secondary.Repositories) error {
			return save(ctx, req.ContractID, repos)
		})
	} else {
		nextID := s.base.Contracts.GetNextID
		if req.ContractID != "" {
			nextID = func(context.Context) (string, error) { return req.ContractID, nil }
		}
		resp.ContractID, err = s.guard.Create(ctx, "contract", "contract.save", nextID, save)
	}
	if err != nil {
		return nil, err
	}

	resp.Success = true
	return resp, nil
}

// validateSave rejects malformed input before any lock is taken.
func (s *ContractServiceImpl) validateSave(ctx context.Context, req primary.SaveContractRequest) error {
	if req.IsUpdate && req.ContractID == "" {
		return fault.Validation("contract id is required for an update")
	}
	if !req.IsUpdate {
		if req.WorkerID == "" || req.CustomerID == "" || req.PlanID == "" {
			return fault.Validation("worker, customer and plan are required")
		}
	}
	if req.PlanID != "" {
		if _, err := s.base.Plans.TotalUnits(ctx, req.PlanID); err != nil {
			return fault.Validation("unknown plan id %q", req.PlanID)
		}
	}
	if req.WorkerID != "" {
		user, err := s.base.Users.GetByID(ctx, req.WorkerID)
		if err != nil || user.Role != "worker" || !user.Active {
			return fault.Validation("%q is not an active worker", req.WorkerID)
		}
	}
	return nil
}

func (s *ContractServiceImpl) create(ctx context.Context, repos secondary.Repositories, id string, req primary.SaveContractRequest) (*secondary.ContractRecord, error) {
	total, err := repos.Plans.TotalUnits(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	record := &secondary.ContractRecord{
		ID:         id,
		WorkerID:   req.WorkerID,
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		Status:     string(contract.StatusActive),
		Note:       req.Note,
		CreatedAt:  stamp,
		UpdatedAt:  stamp,
	}
	if err := repos.Contracts.Create(ctx, record); err != nil {
		return nil, err
	}

	plan, err := lesson.PlanRegeneration(nil, total)
	if err != nil {
		return nil, fault.Validation("%v", err)
	}
	if err := createLessons(ctx, repos, id, plan.CreateSeqs); err != nil {
		return nil, err
	}
	return record, nil
}

// applyUpdate writes field changes and regenerates lessons on a plan change.
// It reports whether the contract was complete before the edit.
func (s *ContractServiceImpl) applyUpdate(ctx context.Context, repos secondary.Repositories, req primary.SaveContractRequest, resp *primary.SaveContractResponse) (*secondary.ContractRecord, bool, error) {
	record, err := repos.Contracts.GetByID(ctx, req.ContractID)
	if err != nil {
		return nil, false, err
	}
	before, err := loadUnits(ctx, repos, record.ID)
	if err != nil {
		return nil, false, err
	}
	wasComplete := contract.Evaluate(lesson.Summarize(before)).IsComplete

	planChanged := req.PlanID != "" && req.PlanID != record.PlanID
	if err := contract.CanEditContract(contract.EditContext{
		ContractID:  record.ID,
		Current:     contract.Status(record.Status),
		PlanChanged: planChanged,
	}).Error(); err != nil {
		return nil, false, err
	}

	if req.WorkerID != "" {
		record.WorkerID = req.WorkerID
	}
	if req.CustomerID != "" {
		record.CustomerID = req.CustomerID
	}
	if req.Note != "" {
		record.Note = req.Note
	}

	if planChanged {
		record.PlanID = req.PlanID
		// The cached summary is reset before the unit set changes so no stale
		// summary survives a failed regeneration.
		record.Summary = lesson.Aggregate{}.Summary()
		record.CompletionDates = nil
		record.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		if err := repos.Contracts.Update(ctx, record); err != nil {
			return nil, false, err
		}

		total, err := repos.Plans.TotalUnits(ctx, record.PlanID)
		if err != nil {
			return nil, false, err
		}
		plan, err := lesson.PlanRegeneration(before, total)
		if err != nil {
			return nil, false, fault.Validation("%v", err)
		}
		for _, u := range plan.Delete {
			if err := repos.Lessons.Delete(ctx, u.ID); err != nil {
				return nil, false, err
			}
		}
		if err := createLessons(ctx, repos, record.ID, plan.CreateSeqs); err != nil {
			return nil, false, err
		}
		resp.Warnings = append(resp.Warnings, plan.Warnings(record.ID)...)
	}
	return record, wasComplete, nil
}

// SetStatus applies an administrative status edit.
func (s *ContractServiceImpl) SetStatus(ctx context.Context, contractID, status string) (*primary.StatusChangeResponse, error) {
	requested, err := contract.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	actor, err := s.identity.CurrentActor(ctx)
	if err != nil {
		return nil, err
	}

	resp := &primary.StatusChangeResponse{ContractID: contractID, To: string(requested)}
	err = s.guard.Run(ctx, contractID, "contract.status", func(ctx context.Context, repos secondary.Repositories) error {
		record, err := repos.Contracts.GetByID(ctx, contractID)
		if err != nil {
			return err
		}
		current := contract.Status(record.Status)
		resp.From = record.Status

		if err := contract.CanChangeStatus(contract.StatusChangeContext{
			ContractID:   contractID,
			Current:      current,
			Requested:    requested,
			ActorIsAdmin: actor.IsAdmin(),
		}).Error(); err != nil {
			return err
		}

		units, err := loadUnits(ctx, repos, contractID)
		if err != nil {
			return err
		}
		result := contract.Evaluate(lesson.Summarize(units))

		plan := contract.PlanStatusChange(contract.StatusChangeInput{
			ContractID:   contractID,
			WorkerID:     record.WorkerID,
			Current:      current,
			Requested:    requested,
			Result:       result,
			ActorID:      actor.ID,
			ActorIsAdmin: actor.IsAdmin(),
		}, s.now())
		if !plan.Fire {
			return nil
		}

		writeCache(record, units)
		record.Status = string(plan.To)
		if plan.CompletedAt != nil {
			record.CompletedAt = plan.CompletedAt.UTC().Format(time.RFC3339)
		}
		record.UpdatedAt = s.now().UTC().Format(time.RFC3339)
		if err := repos.Contracts.Update(ctx, record); err != nil {
			return err
		}

		report, err := s.executor.Execute(ctx, repos, plan.Effects)
		if err != nil {
			return err
		}
		resp.Notified = report.Notified
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Evaluate runs the completion detector on the live units without side effects.
func (s *ContractServiceImpl) Evaluate(ctx context.Context, contractID string) (*primary.Completion, error) {
	if _, err := s.base.Contracts.GetByID(ctx, contractID); err != nil {
		return nil, err
	}
	units, err := loadUnits(ctx, s.base, contractID)
	if err != nil {
		return nil, err
	}
	r := contract.Evaluate(lesson.Summarize(units))
	return &primary.Completion{
		ContractID:         contractID,
		IsComplete:         r.IsComplete,
		CompletedAvailable: r.CompletedAvailable,
		TotalAvailable:     r.TotalAvailable,
		TotalUnits:         r.TotalUnits,
		Excluded:           r.Excluded,
		Summary:            r.Summary(),
	}, nil
}

// GetContract retrieves a contract with its lessons.
func (s *ContractServiceImpl) GetContract(ctx context.Context, contractID string) (*primary.Contract, error) {
	record, err := s.base.Contracts.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	lessons, err := s.base.Lessons.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	c := recordToContract(record)
	for _, l := range lessons {
		c.Lessons = append(c.Lessons, recordToLesson(l))
	}
	return c, nil
}

// ListContracts lists contracts with optional filters.
func (s *ContractServiceImpl) ListContracts(ctx context.Context, filters primary.ContractFilters) ([]*primary.Contract, error) {
	records, err := s.base.Contracts.List(ctx, secondary.ContractFilters{
		WorkerID: filters.WorkerID,
		Status:   filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	contracts := make([]*primary.Contract, len(records))
	for i, r := range records {
		contracts[i] = recordToContract(r)
	}
	return contracts, nil
}

type recomputeResult struct {
	fired  bool
	report ExecutionReport
}

// recomputeContract is the single point where a contract's cached summary is
// written: it aggregates the live units, stores summary and completion dates,
// and fires Active -> Completed when the detector says so.
func recomputeContract(
	ctx context.Context,
	repos secondary.Repositories,
	executor EffectExecutor,
	record *secondary.ContractRecord,
	actor *secondary.Actor,
	wasComplete bool,
	now time.Time,
) (recomputeResult, error) {
	units, err := loadUnits(ctx, repos, record.ID)
	if err != nil {
		return recomputeResult{}, err
	}
	result := contract.Evaluate(lesson.Summarize(units))

	notified, err := repos.Notifications.ExistsForEntity(ctx, notification.EntityContract, record.ID, string(notification.TypeContractFulfilled))
	if err != nil {
		return recomputeResult{}, err
	}

	plan := contract.PlanCompletion(contract.CompletionPlanInput{
		ContractID:        record.ID,
		WorkerID:          record.WorkerID,
		Status:            contract.Status(record.Status),
		WasComplete:       wasComplete,
		Result:            result,
		FulfilledNotified: notified,
		ActorID:           actor.ID,
		ActorIsAdmin:      actor.IsAdmin(),
	}, now)

	writeCache(record, units)
	if plan.Fire {
		record.Status = string(plan.To)
		record.CompletedAt = plan.CompletedAt.UTC().Format(time.RFC3339)
	}
	record.UpdatedAt = now.UTC().Format(time.RFC3339)
	if err := repos.Contracts.Update(ctx, record); err != nil {
		return recomputeResult{}, err
	}

	report, err := executor.Execute(ctx, repos, plan.Effects)
	if err != nil {
		return recomputeResult{}, err
	}
	return recomputeResult{fired: plan.Fire, report: report}, nil
}

func writeCache(record *secondary.ContractRecord, units []lesson.Unit) {
	record.Summary = lesson.Summarize(units).Summary()
	record.CompletionDates = lesson.CompletionDates(units)
}

func loadUnits(ctx context.Context, repos secondary.Repositories, contractID string) ([]lesson.Unit, error) {
	records, err := repos.Lessons.ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	units := make([]lesson.Unit, len(records))
	for i, r := range records {
		units[i] = recordToUnit(r)
	}
	return units, nil
}

func createLessons(ctx context.Context, repos secondary.Repositories, contractID string, seqs []int) error {
	for _, u := range lesson.NewUnits(contractID, seqs) {
		id, err := repos.Lessons.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate lesson ID: %w", err)
		}
		if err := repos.Lessons.Create(ctx, &secondary.LessonRecord{
			ID:         id,
			ContractID: u.ContractID,
			Seq:        u.Seq,
			Available:  u.Available,
		}); err != nil {
			return err
		}
	}
	return nil
}

func recordToUnit(r *secondary.LessonRecord) lesson.Unit {
	return lesson.Unit{
		ID:          r.ID,
		ContractID:  r.ContractID,
		Seq:         r.Seq,
		CompletedOn: r.CompletedOn,
		Available:   r.Available,
		Note:        r.Note,
	}
}

func recordToLesson(r *secondary.LessonRecord) *primary.Lesson {
	return &primary.Lesson{
		ID:          r.ID,
		ContractID:  r.ContractID,
		Seq:         r.Seq,
		CompletedOn: r.CompletedOn,
		Note:        r.Note,
		Available:   r.Available,
	}
}

func recordToContract(r *secondary.ContractRecord) *primary.Contract {
	return &primary.Contract{
		ID:              r.ID,
		WorkerID:        r.WorkerID,
		CustomerID:      r.CustomerID,
		PlanID:          r.PlanID,
		Status:          r.Status,
		Summary:         r.Summary,
		CompletionDates: r.CompletionDates,
		Note:            r.Note,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		CompletedAt:     r.CompletedAt,
	}
}

var _ primary.ContractService = (*ContractServiceImpl)(nil)
