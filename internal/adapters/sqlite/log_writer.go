package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/lessonbook/internal/ctxutil"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// OperationLogWriter implements secondary.OperationLogRepository.
// It must be built on the base connection, never on a unit-of-work transaction,
// so entries outlive a rolled-back operation.
type OperationLogWriter struct {
	db db.DBTX
}

// NewOperationLogWriter creates a new OperationLogWriter.
func NewOperationLogWriter(q db.DBTX) *OperationLogWriter {
	return &OperationLogWriter{db: q}
}

// Append adds one entry. The actor falls back to the one carried by ctx.
func (w *OperationLogWriter) Append(ctx context.Context, entry *secondary.OperationLogRecord) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ActorID == "" {
		entry.ActorID = ctxutil.ActorFromContext(ctx)
	}
	entry.CreatedAt = timestamp(entry.CreatedAt)

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO operation_log (id, seq, entity_id, operation, outcome, error, actor_id, created_at)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM operation_log), ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.EntityID, entry.Operation, entry.Outcome,
		nullString(entry.Error), nullString(entry.ActorID), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append operation log: %w", err)
	}
	return nil
}

// ListByEntity retrieves entries for an entity in append order.
func (w *OperationLogWriter) ListByEntity(ctx context.Context, entityID string) ([]*secondary.OperationLogRecord, error) {
	rows, err := w.db.QueryContext(ctx,
		`SELECT id, seq, entity_id, operation, outcome, error, actor_id, created_at
		FROM operation_log WHERE entity_id = ? ORDER BY seq ASC`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operation log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.OperationLogRecord
	for rows.Next() {
		var errText, actor sql.NullString
		record := &secondary.OperationLogRecord{}
		if err := rows.Scan(&record.ID, &record.Seq, &record.EntityID, &record.Operation, &record.Outcome,
			&errText, &actor, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan operation log: %w", err)
		}
		record.Error = errText.String
		record.ActorID = actor.String
		entries = append(entries, record)
	}
	return entries, rows.Err()
}

// Ensure OperationLogWriter implements the interface
var _ secondary.OperationLogRepository = (*OperationLogWriter)(nil)
