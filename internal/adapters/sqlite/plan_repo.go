package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// PlanRepository implements secondary.PlanRepository with SQLite.
type PlanRepository struct {
	db db.DBTX
}

// NewPlanRepository creates a new SQLite plan repository.
func NewPlanRepository(q db.DBTX) *PlanRepository {
	return &PlanRepository{db: q}
}

// Create persists a new plan.
func (r *PlanRepository) Create(ctx context.Context, p *secondary.PlanRecord) error {
	p.CreatedAt = timestamp(p.CreatedAt)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO plans (id, name, total_units, created_at) VALUES (?, ?, ?, ?)",
		p.ID, p.Name, p.TotalUnits, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

// GetByID retrieves a plan by its ID.
func (r *PlanRepository) GetByID(ctx context.Context, id string) (*secondary.PlanRecord, error) {
	record := &secondary.PlanRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, total_units, created_at FROM plans WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.TotalUnits, &record.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("plan", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return record, nil
}

// List retrieves all plans ordered by ID.
func (r *PlanRepository) List(ctx context.Context) ([]*secondary.PlanRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, total_units, created_at FROM plans ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*secondary.PlanRecord
	for rows.Next() {
		record := &secondary.PlanRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.TotalUnits, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, record)
	}
	return plans, rows.Err()
}

// TotalUnits returns the number of lessons the plan defines.
func (r *PlanRepository) TotalUnits(ctx context.Context, planID string) (int, error) {
	plan, err := r.GetByID(ctx, planID)
	if err != nil {
		return 0, err
	}
	return plan.TotalUnits, nil
}

var _ secondary.PlanRepository = (*PlanRepository)(nil)
