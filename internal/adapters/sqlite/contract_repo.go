package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// ContractRepository implements secondary.ContractRepository with SQLite.
type ContractRepository struct {
	db db.DBTX
}

// NewContractRepository creates a new SQLite contract repository.
func NewContractRepository(q db.DBTX) *ContractRepository {
	return &ContractRepository{db: q}
}

const contractColumns = "id, worker_id, customer_id, plan_id, status, summary, completion_dates, note, version, created_at, updated_at, completed_at"

// Create persists a new contract.
func (r *ContractRepository) Create(ctx context.Context, c *secondary.ContractRecord) error {
	dates, err := encodeDates(c.CompletionDates)
	if err != nil {
		return err
	}
	if c.Summary == "" {
		c.Summary = "0/0"
	}
	if c.Version == 0 {
		c.Version = 1
	}
	c.CreatedAt = timestamp(c.CreatedAt)
	c.UpdatedAt = timestamp(c.UpdatedAt)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO contracts (`+contractColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.WorkerID, c.CustomerID, c.PlanID, c.Status, c.Summary, dates,
		nullString(c.Note), c.Version, c.CreatedAt, c.UpdatedAt, nullString(c.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

// GetByID retrieves a contract by its ID.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*secondary.ContractRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+contractColumns+" FROM contracts WHERE id = ?", id)
	record, err := scanContract(row)
	if err == sql.ErrNoRows {
		return nil, fault.NotFound("contract", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return record, nil
}

// Update writes every mutable field and bumps the version counter.
func (r *ContractRepository) Update(ctx context.Context, c *secondary.ContractRecord) error {
	dates, err := encodeDates(c.CompletionDates)
	if err != nil {
		return err
	}
	c.UpdatedAt = timestamp(c.UpdatedAt)

	result, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET worker_id = ?, customer_id = ?, plan_id = ?, status = ?, summary = ?,
			completion_dates = ?, note = ?, version = version + 1, updated_at = ?, completed_at = ?
		WHERE id = ?`,
		c.WorkerID, c.CustomerID, c.PlanID, c.Status, c.Summary, dates,
		nullString(c.Note), c.UpdatedAt, nullString(c.CompletedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contract: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fault.NotFound("contract", c.ID)
	}
	c.Version++
	return nil
}

// List retrieves contracts matching the given filters.
func (r *ContractRepository) List(ctx context.Context, filters secondary.ContractFilters) ([]*secondary.ContractRecord, error) {
	query := "SELECT " + contractColumns + " FROM contracts WHERE 1=1"
	var args []any
	if filters.WorkerID != "" {
		query += " AND worker_id = ?"
		args = append(args, filters.WorkerID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []*secondary.ContractRecord
	for rows.Next() {
		record, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, record)
	}
	return contracts, rows.Err()
}

// GetNextID returns the next available contract ID.
func (r *ContractRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "contracts", "CON", 3)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContract(s rowScanner) (*secondary.ContractRecord, error) {
	var (
		dates       string
		note        sql.NullString
		completedAt sql.NullString
	)
	record := &secondary.ContractRecord{}
	err := s.Scan(&record.ID, &record.WorkerID, &record.CustomerID, &record.PlanID, &record.Status,
		&record.Summary, &dates, &note, &record.Version, &record.CreatedAt, &record.UpdatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dates), &record.CompletionDates); err != nil {
		return nil, fmt.Errorf("contract %s has malformed completion_dates: %w", record.ID, err)
	}
	record.Note = note.String
	record.CompletedAt = completedAt.String
	return record, nil
}

func encodeDates(dates []string) (string, error) {
	if dates == nil {
		dates = []string{}
	}
	b, err := json.Marshal(dates)
	if err != nil {
		return "", fmt.Errorf("failed to encode completion dates: %w", err)
	}
	return string(b), nil
}

var _ secondary.ContractRepository = (*ContractRepository)(nil)
