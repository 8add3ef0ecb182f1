package primary

import "context"

// UserService defines the primary port for the user directory.
type UserService interface {
	// AddUser registers a worker or administrator.
	AddUser(ctx context.Context, req AddUserRequest) (*User, error)

	// ListUsers lists users, optionally by role.
	ListUsers(ctx context.Context, role string) ([]*User, error)
}

// AddUserRequest contains parameters for registering a user.
type AddUserRequest struct {
	ID   string
	Name string
	Role string
}

// User represents a user at the port boundary.
type User struct {
	ID     string
	Name   string
	Role   string
	Active bool
}

// PlanService defines the primary port for the plan catalog.
type PlanService interface {
	// AddPlan adds a plan to the catalog.
	AddPlan(ctx context.Context, req AddPlanRequest) (*Plan, error)

	// ListPlans lists the catalog.
	ListPlans(ctx context.Context) ([]*Plan, error)
}

// AddPlanRequest contains parameters for adding a plan.
type AddPlanRequest struct {
	ID         string
	Name       string
	TotalUnits int
}

// Plan represents a catalog plan at the port boundary.
type Plan struct {
	ID         string
	Name       string
	TotalUnits int
}
