package app

import (
	"context"

	"github.com/example/lessonbook/internal/ports/primary"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// OperationLogServiceImpl implements the OperationLogService interface.
type OperationLogServiceImpl struct {
	oplog secondary.OperationLogRepository
}

// NewOperationLogService creates a new OperationLogService with injected dependencies.
func NewOperationLogService(oplog secondary.OperationLogRepository) *OperationLogServiceImpl {
	return &OperationLogServiceImpl{oplog: oplog}
}

// ListOperations retrieves an entity's operation log in append order.
func (s *OperationLogServiceImpl) ListOperations(ctx context.Context, entityID string) ([]*primary.OperationLogEntry, error) {
	records, err := s.oplog.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	entries := make([]*primary.OperationLogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.OperationLogEntry{
			Seq:       r.Seq,
			EntityID:  r.EntityID,
			Operation: r.Operation,
			Outcome:   r.Outcome,
			Error:     r.Error,
			ActorID:   r.ActorID,
			CreatedAt: r.CreatedAt,
		}
	}
	return entries, nil
}

var _ primary.OperationLogService = (*OperationLogServiceImpl)(nil)
