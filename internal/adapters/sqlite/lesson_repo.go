package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// LessonRepository implements secondary.LessonRepository with SQLite.
type LessonRepository struct {
	db db.DBTX
}

// NewLessonRepository creates a new SQLite lesson repository.
func NewLessonRepository(q db.DBTX) *LessonRepository {
	return &LessonRepository{db: q}
}

const lessonColumns = "id, contract_id, seq, completed_on, note, available, updated_at"

// Create persists a new lesson.
func (r *LessonRepository) Create(ctx context.Context, l *secondary.LessonRecord) error {
	l.UpdatedAt = timestamp(l.UpdatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lessons ("+lessonColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		l.ID, l.ContractID, l.Seq, nullString(l.CompletedOn), nullString(l.Note), boolInt(l.Available), l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lesson: %w", err)
	}
	return nil
}

// GetByID retrieves a lesson by its ID.
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*secondary.LessonRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+lessonColumns+" FROM lessons WHERE id = ?", id)
	record, err := scanLesson(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("lesson", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return record, nil
}

// ListByContract retrieves a contract's lessons ordered by sequence.
func (r *LessonRepository) ListByContract(ctx context.Context, contractID string) ([]*secondary.LessonRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+lessonColumns+" FROM lessons WHERE contract_id = ? ORDER BY seq ASC", contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*secondary.LessonRecord
	for rows.Next() {
		record, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessons = append(lessons, record)
	}
	return lessons, rows.Err()
}

// Update writes completion, note and availability.
func (r *LessonRepository) Update(ctx context.Context, l *secondary.LessonRecord) error {
	l.UpdatedAt = timestamp(l.UpdatedAt)
	result, err := r.db.ExecContext(ctx,
		"UPDATE lessons SET completed_on = ?, note = ?, available = ?, updated_at = ? WHERE id = ?",
		nullString(l.CompletedOn), nullString(l.Note), boolInt(l.Available), l.UpdatedAt, l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("lesson", l.ID)
	}
	return nil
}

// Delete removes a lesson.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM lessons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("lesson", id)
	}
	return nil
}

// GetNextID returns the next available lesson ID.
func (r *LessonRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "lessons", "LES", 4)
}

func scanLesson(s rowScanner) (*secondary.LessonRecord, error) {
	var (
		completedOn sql.NullString
		note        sql.NullString
		available   int
	)
	record := &secondary.LessonRecord{}
	err := s.Scan(&record.ID, &record.ContractID, &record.Seq, &completedOn, &note, &available, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.CompletedOn = completedOn.String
	record.Note = note.String
	record.Available = available == 1
	return record, nil
}

var _ secondary.LessonRepository = (*LessonRepository)(nil)
