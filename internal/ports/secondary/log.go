package secondary

import "context"

// Operation log outcomes. Each phase of an operation appends its own row.
const (
	OutcomeStarted = "started"
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
)

// OperationLogRepository defines the append-only audit trail of guarded operations.
// Implementations write on their own connection scope so entries survive a
// rolled-back business transaction.
type OperationLogRepository interface {
	// Append adds one entry. Entries are never updated in place.
	Append(ctx context.Context, entry *OperationLogRecord) error

	// ListByEntity retrieves entries for an entity in append order.
	ListByEntity(ctx context.Context, entityID string) ([]*OperationLogRecord, error)
}

// OperationLogRecord represents one audit entry as stored in persistence.
type OperationLogRecord struct {
	ID        string
	Seq       int64
	EntityID  string
	Operation string // e.g. "contract.save", "appointment.claim", "notify:contract_fulfilled"
	Outcome   string // started, success, failed
	Error     string
	ActorID   string
	CreatedAt string
}
