// Package primary defines the primary ports (driving adapters) for the application.
// CLI and HTTP adapters talk to the application only through these interfaces.
package primary

import "context"

// ContractService defines the primary port for contract operations.
type ContractService interface {
	// SaveContract creates or updates a contract, regenerating lessons on a
	// plan change, and re-evaluates completion in the same unit of work.
	SaveContract(ctx context.Context, req SaveContractRequest) (*SaveContractResponse, error)

	// SetStatus applies an administrative status edit.
	SetStatus(ctx context.Context, contractID, status string) (*StatusChangeResponse, error)

	// Evaluate runs the completion detector without side effects.
	Evaluate(ctx context.Context, contractID string) (*Completion, error)

	// GetContract retrieves a contract with its lessons.
	GetContract(ctx context.Context, contractID string) (*Contract, error)

	// ListContracts lists contracts with optional filters.
	ListContracts(ctx context.Context, filters ContractFilters) ([]*Contract, error)
}

// SaveContractRequest contains parameters for saving a contract.
// An empty ContractID with IsUpdate false creates a new contract.
type SaveContractRequest struct {
	IsUpdate   bool
	ContractID string
	WorkerID   string
	CustomerID string
	PlanID     string
	Note       string
}

// SaveContractResponse contains the result of saving a contract.
type SaveContractResponse struct {
	Success    bool
	ContractID string
	Warnings   []string
	Summary    string
	Status     string
	Completed  bool // true when this save fired Active -> Completed
}

// StatusChangeResponse contains the result of an administrative status edit.
type StatusChangeResponse struct {
	ContractID string
	From       string
	To         string
	Notified   int
}

// Completion is the completion detector's result at the port boundary.
type Completion struct {
	ContractID         string
	IsComplete         bool
	CompletedAvailable int
	TotalAvailable     int
	TotalUnits         int
	Excluded           int
	Summary            string
}

// Contract represents a contract entity at the port boundary.
// Status lifecycle: active → completed | cancelled (both terminal)
type Contract struct {
	ID              string
	WorkerID        string
	CustomerID      string
	PlanID          string
	Status          string
	Summary         string
	CompletionDates []string
	Note            string
	Version         int
	CreatedAt       string
	UpdatedAt       string
	CompletedAt     string
	Lessons         []*Lesson
}

// ContractFilters contains filter options for listing contracts.
type ContractFilters struct {
	WorkerID string
	Status   string
}
