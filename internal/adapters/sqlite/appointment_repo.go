package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// AppointmentRepository implements secondary.AppointmentRepository with SQLite.
type AppointmentRepository struct {
	db db.DBTX
}

// NewAppointmentRepository creates a new SQLite appointment repository.
func NewAppointmentRepository(q db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: q}
}

const appointmentColumns = "id, candidate_name, specialty, contact, status, claimed_by, created_by, version, created_at, updated_at"

// Create persists a new appointment.
func (r *AppointmentRepository) Create(ctx context.Context, a *secondary.AppointmentRecord) error {
	if a.Version == 0 {
		a.Version = 1
	}
	a.CreatedAt = timestamp(a.CreatedAt)
	a.UpdatedAt = timestamp(a.UpdatedAt)

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO appointments ("+appointmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		a.ID, a.CandidateName, a.Specialty, nullString(a.Contact), a.Status, nullString(a.ClaimedBy),
		a.CreatedBy, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*secondary.AppointmentRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+appointmentColumns+" FROM appointments WHERE id = ?", id)
	record, err := scanAppointment(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("appointment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return record, nil
}

// List retrieves appointments matching the given filters.
func (r *AppointmentRepository) List(ctx context.Context, filters secondary.AppointmentFilters) ([]*secondary.AppointmentRecord, error) {
	query := "SELECT " + appointmentColumns + " FROM appointments WHERE 1=1"
	var args []any
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.ClaimedBy != "" {
		query += " AND claimed_by = ?"
		args = append(args, filters.ClaimedBy)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*secondary.AppointmentRecord
	for rows.Next() {
		record, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appointments = append(appointments, record)
	}
	return appointments, rows.Err()
}

// CompareAndSwap moves the appointment only while it is still at expectedVersion.
// Zero affected rows means another writer changed it first.
func (r *AppointmentRepository) CompareAndSwap(ctx context.Context, id string, expectedVersion int, status, claimedBy string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET status = ?, claimed_by = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		status, nullString(claimedBy), timestamp(""), id, expectedVersion,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update appointment: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to update appointment: %w", err)
	}
	return rowsAffected == 1, nil
}

// GetNextID returns the next available appointment ID.
func (r *AppointmentRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "appointments", "APPT", 3)
}

func scanAppointment(s rowScanner) (*secondary.AppointmentRecord, error) {
	var (
		contact   sql.NullString
		claimedBy sql.NullString
	)
	record := &secondary.AppointmentRecord{}
	err := s.Scan(&record.ID, &record.CandidateName, &record.Specialty, &contact, &record.Status,
		&claimedBy, &record.CreatedBy, &record.Version, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Contact = contact.String
	record.ClaimedBy = claimedBy.String
	return record, nil
}

var _ secondary.AppointmentRepository = (*AppointmentRepository)(nil)
