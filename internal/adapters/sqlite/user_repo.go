package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db db.DBTX
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(q db.DBTX) *UserRepository {
	return &UserRepository{db: q}
}

// Create persists a new user.
func (r *UserRepository) Create(ctx context.Context, u *secondary.UserRecord) error {
	u.CreatedAt = timestamp(u.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, name, role, active, created_at) VALUES (?, ?, ?, ?, ?)",
		u.ID, u.Name, u.Role, boolInt(u.Active), u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	var active int
	record := &secondary.UserRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, role, active, created_at FROM users WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.Role, &active, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	record.Active = active == 1
	return record, nil
}

// List retrieves users matching the given filters, ordered by ID.
func (r *UserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	query := "SELECT id, name, role, active, created_at FROM users WHERE 1=1"
	var args []any
	if filters.Role != "" {
		query += " AND role = ?"
		args = append(args, filters.Role)
	}
	if filters.ActiveOnly {
		query += " AND active = 1"
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		var active int
		record := &secondary.UserRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Role, &active, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		record.Active = active == 1
		users = append(users, record)
	}
	return users, rows.Err()
}

var _ secondary.UserRepository = (*UserRepository)(nil)
