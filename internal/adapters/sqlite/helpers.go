// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/lessonbook/internal/db"
)

// timestamp returns s, or the current UTC time when s is empty.
func timestamp(s string) string {
	if s != "" {
		return s
	}
	return time.Now().UTC().Format(time.RFC3339)
}

// nullString maps the empty string to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nextSequentialID returns the next "<PREFIX>-<n>" ID for table, zero-padded to width.
func nextSequentialID(ctx context.Context, q db.DBTX, table, prefix string, width int) (string, error) {
	var maxID int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s", len(prefix)+2, table),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", table, err)
	}
	return fmt.Sprintf("%s-%0*d", prefix, width, maxID+1), nil
}
