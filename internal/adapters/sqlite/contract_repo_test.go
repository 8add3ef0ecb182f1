package sqlite_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/lessonbook/internal/adapters/sqlite"
	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/secondary"
)

func TestContractRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "USR-001", "worker")
	seedPlan(t, db, "PLAN-10", 10)
	repo := sqlite.NewContractRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "CON-001" {
		t.Errorf("expected CON-001, got %s", id)
	}

	err = repo.Create(ctx, &secondary.ContractRecord{
		ID:         id,
		WorkerID:   "USR-001",
		CustomerID: "CUST-9",
		PlanID:     "PLAN-10",
		Status:     "active",
		Note:       "weekday mornings",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Summary != "0/0" {
		t.Errorf("expected default summary 0/0, got %q", got.Summary)
	}
	if len(got.CompletionDates) != 0 {
		t.Errorf("expected no completion dates, got %v", got.CompletionDates)
	}
	if got.Version != 1 {
		t.Errorf("expected version 1, got %d", got.Version)
	}
	if got.Note != "weekday mornings" {
		t.Errorf("expected note, got %q", got.Note)
	}
}

func TestContractRepository_UpdateBumpsVersionAndStoresDates(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "USR-001", "worker")
	seedPlan(t, db, "PLAN-10", 10)
	seedContract(t, db, "CON-001", "USR-001", "PLAN-10")
	repo := sqlite.NewContractRepository(db)
	ctx := context.Background()

	c, err := repo.GetByID(ctx, "CON-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	c.Status = "completed"
	c.Summary = "2/2"
	c.CompletionDates = []string{"2026-01-05", "2026-01-12"}
	c.CompletedAt = testTime
	if err := repo.Update(ctx, c); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "CON-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Version != 2 || c.Version != 2 {
		t.Errorf("expected version 2, got stored=%d record=%d", got.Version, c.Version)
	}
	if !reflect.DeepEqual(got.CompletionDates, []string{"2026-01-05", "2026-01-12"}) {
		t.Errorf("unexpected completion dates %v", got.CompletionDates)
	}
	if got.CompletedAt != testTime {
		t.Errorf("expected completed_at %s, got %q", testTime, got.CompletedAt)
	}
}

func TestContractRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewContractRepository(db)

	_, err := repo.GetByID(context.Background(), "CON-999")
	if !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestContractRepository_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "USR-001", "worker")
	seedUser(t, db, "USR-002", "worker")
	seedPlan(t, db, "PLAN-4", 4)
	seedContract(t, db, "CON-001", "USR-001", "PLAN-4")
	seedContract(t, db, "CON-002", "USR-002", "PLAN-4")
	repo := sqlite.NewContractRepository(db)

	got, err := repo.List(context.Background(), secondary.ContractFilters{WorkerID: "USR-002"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "CON-002" {
		t.Errorf("expected only CON-002, got %d contracts", len(got))
	}
}
