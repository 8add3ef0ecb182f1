package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// NotificationRepository implements secondary.NotificationRepository with SQLite.
// The UNIQUE(entity_type, entity_id, recipient_id, type) constraint backs the
// explicit existence check in Insert.
type NotificationRepository struct {
	db db.DBTX
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(q db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: q}
}

const notificationColumns = "id, type, entity_type, entity_id, recipient_id, message, read, created_at, updated_at"

// Exists reports whether a notification exists for the exact tuple.
func (r *NotificationRepository) Exists(ctx context.Context, key secondary.NotificationKey) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications
		WHERE entity_type = ? AND entity_id = ? AND recipient_id = ? AND type = ?`,
		key.EntityType, key.EntityID, key.RecipientID, key.Type,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return n > 0, nil
}

// ExistsForEntity reports whether any notification of type exists for the entity.
func (r *NotificationRepository) ExistsForEntity(ctx context.Context, entityType, entityID, notificationType string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE entity_type = ? AND entity_id = ? AND type = ?",
		entityType, entityID, notificationType,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check notifications: %w", err)
	}
	return n > 0, nil
}

// Insert persists a notification. A duplicate tuple returns false, not an error.
func (r *NotificationRepository) Insert(ctx context.Context, n *secondary.NotificationRecord) (bool, error) {
	exists, err := r.Exists(ctx, n.Key())
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = timestamp(n.CreatedAt)
	n.UpdatedAt = timestamp(n.UpdatedAt)

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_type, entity_id, recipient_id, type) DO NOTHING`,
		n.ID, n.Type, n.EntityType, n.EntityID, n.RecipientID, n.Message, boolInt(n.Read), n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert notification: %w", err)
	}
	return rowsAffected == 1, nil
}

// Retract deletes notifications by exact (entity, type) match.
func (r *NotificationRepository) Retract(ctx context.Context, entityType, entityID string, types []string, excludeRecipient string) (int, error) {
	if len(types) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf(
		"DELETE FROM notifications WHERE entity_type = ? AND entity_id = ? AND type IN (%s)",
		strings.TrimSuffix(strings.Repeat("?, ", len(types)), ", "),
	)
	args := []any{entityType, entityID}
	for _, t := range types {
		args = append(args, t)
	}
	if excludeRecipient != "" {
		query += " AND recipient_id != ?"
		args = append(args, excludeRecipient)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to retract notifications: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

// GetByID retrieves a notification by its ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*secondary.NotificationRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+notificationColumns+" FROM notifications WHERE id = ?", id)
	record, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("notification", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return record, nil
}

// List retrieves notifications visible under the given filters, newest first.
func (r *NotificationRepository) List(ctx context.Context, filters secondary.NotificationFilters) ([]*secondary.NotificationRecord, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE "
	args := []any{filters.RecipientID}
	if filters.IncludeAdminVisible {
		query += "(recipient_id = ? OR recipient_id = '')"
	} else {
		query += "recipient_id = ?"
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}
	if filters.UnreadOnly {
		query += " AND read = 0"
	}
	query += " ORDER BY created_at DESC, id ASC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*secondary.NotificationRecord
	for rows.Next() {
		record, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, record)
	}
	return notifications, rows.Err()
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1, updated_at = ? WHERE id = ?", timestamp(""), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("notification", id)
	}
	return nil
}

func scanNotification(s rowScanner) (*secondary.NotificationRecord, error) {
	var read int
	record := &secondary.NotificationRecord{}
	err := s.Scan(&record.ID, &record.Type, &record.EntityType, &record.EntityID, &record.RecipientID,
		&record.Message, &read, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Read = read == 1
	return record, nil
}

var _ secondary.NotificationRepository = (*NotificationRepository)(nil)
