package primary

import "context"

// OperationLogService defines the primary port for reading the audit trail.
type OperationLogService interface {
	// ListOperations retrieves an entity's operation log in append order.
	ListOperations(ctx context.Context, entityID string) ([]*OperationLogEntry, error)
}

// OperationLogEntry represents one audit entry at the port boundary.
type OperationLogEntry struct {
	Seq       int64
	EntityID  string
	Operation string
	Outcome   string // 'started', 'success', 'failed'
	Error     string
	ActorID   string
	CreatedAt string
}
