package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	users secondary.UserRepository
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(users secondary.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{users: users}
}

// AddUser registers a worker or administrator.
func (s *UserServiceImpl) AddUser(ctx context.Context, req primary.AddUserRequest) (*primary.User, error) {
	id := strings.TrimSpace(req.ID)
	name := strings.TrimSpace(req.Name)
	if id == "" || name == "" {
		return nil, fault.Validation("user id and name are required")
	}
	if req.Role != "worker" && req.Role != "admin" {
		return nil, fault.Validation("role must be worker or admin, got %q", req.Role)
	}

	record := &secondary.UserRecord{ID: id, Name: name, Role: req.Role, Active: true}
	if err := s.users.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add user: %w", err)
	}
	return recordToUser(record), nil
}

// ListUsers lists users, optionally by role.
func (s *UserServiceImpl) ListUsers(ctx context.Context, role string) ([]*primary.User, error) {
	records, err := s.users.List(ctx, secondary.UserFilters{Role: role})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*primary.User, len(records))
	for i, r := range records {
		out[i] = recordToUser(r)
	}
	return out, nil
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{ID: r.ID, Name: r.Name, Role: r.Role, Active: r.Active}
}

// PlanServiceImpl implements the PlanService interface.
type PlanServiceImpl struct {
	plans secondary.PlanRepository
}

// NewPlanService creates a new PlanService with injected dependencies.
func NewPlanService(plans secondary.PlanRepository) *PlanServiceImpl {
	return &PlanServiceImpl{plans: plans}
}

// AddPlan adds a plan to the catalog.
func (s *PlanServiceImpl) AddPlan(ctx context.Context, req primary.AddPlanRequest) (*primary.Plan, error) {
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, fault.Validation("plan id and name are required")
	}
	if req.TotalUnits <= 0 {
		return nil, fault.Validation("plan must have at least one lesson, got %d", req.TotalUnits)
	}

	record := &secondary.PlanRecord{ID: strings.TrimSpace(req.ID), Name: strings.TrimSpace(req.Name), TotalUnits: req.TotalUnits}
	if err := s.plans.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to add plan: %w", err)
	}
	return &primary.Plan{ID: record.ID, Name: record.Name, TotalUnits: record.TotalUnits}, nil
}

// ListPlans lists the catalog.
func (s *PlanServiceImpl) ListPlans(ctx context.Context) ([]*primary.Plan, error) {
	records, err := s.plans.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	out := make([]*primary.Plan, len(records))
	for i, r := range records {
		out[i] = &primary.Plan{ID: r.ID, Name: r.Name, TotalUnits: r.TotalUnits}
	}
	return out, nil
}

var (
	_ primary.UserService = (*UserServiceImpl)(nil)
	_ primary.PlanService = (*PlanServiceImpl)(nil)
)
