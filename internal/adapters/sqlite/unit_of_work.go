package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/example/lessonbook/internal/db"
	"github.com/example/lessonbook/internal/ports/secondary"
)

// UnitOfWork implements secondary.UnitOfWork using database/sql transactions.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a UnitOfWork backed by the given *sql.DB.
func NewUnitOfWork(database *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: database}
}

// Atomic runs fn in one transaction with tx-scoped repositories.
func (u *UnitOfWork) Atomic(ctx context.Context, fn func(ctx context.Context, repos secondary.Repositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, NewRepositories(tx, &savepoints{tx: tx})); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// NewRepositories binds every repository to q. scope may be nil outside a transaction.
func NewRepositories(q db.DBTX, scope secondary.SavepointRunner) secondary.Repositories {
	return secondary.Repositories{
		Contracts:     NewContractRepository(q),
		Lessons:       NewLessonRepository(q),
		Appointments:  NewAppointmentRepository(q),
		Notifications: NewNotificationRepository(q),
		Users:         NewUserRepository(q),
		Plans:         NewPlanRepository(q),
		Scope:         scope,
	}
}

var savepointName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type savepoints struct {
	tx *sql.Tx
}

// Savepoint runs fn between SAVEPOINT and RELEASE, rolling back to the
// savepoint when fn fails.
func (s *savepoints) Savepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if !savepointName.MatchString(name) {
		return fmt.Errorf("invalid savepoint name %q", name)
	}
	if _, err := s.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to open savepoint %s: %w", name, err)
	}

	if err := fn(ctx); err != nil {
		if _, rbErr := s.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("rollback to savepoint %s failed: %v (original error: %w)", name, rbErr, err)
		}
		if _, relErr := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); relErr != nil {
			return fmt.Errorf("release savepoint %s failed: %v (original error: %w)", name, relErr, err)
		}
		return err
	}

	if _, err := s.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}
	return nil
}

var _ secondary.UnitOfWork = (*UnitOfWork)(nil)
