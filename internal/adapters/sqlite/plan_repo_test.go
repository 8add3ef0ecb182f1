package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/example/lessonbook/internal/adapters/sqlite"
	"github.com/example/lessonbook/internal/core/fault"
	"github.com/example/lessonbook/internal/ports/secondary"
)

func TestPlanRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewPlanRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.PlanRecord{ID: "PLAN-10", Name: "Ten lessons", TotalUnits: 10}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "PLAN-10")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Ten lessons" || got.TotalUnits != 10 || got.CreatedAt == "" {
		t.Errorf("plan = %+v", got)
	}

	total, err := repo.TotalUnits(ctx, "PLAN-10")
	if err != nil || total != 10 {
		t.Errorf("TotalUnits = %d, %v; want 10", total, err)
	}
}

func TestPlanRepository_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewPlanRepository(db)

	_, err := repo.TotalUnits(context.Background(), "PLAN-404")
	if !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPlanRepository_RejectsNonPositiveUnits(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewPlanRepository(db)

	if err := repo.Create(context.Background(), &secondary.PlanRecord{ID: "PLAN-0", Name: "Empty", TotalUnits: 0}); err == nil {
		t.Error("expected CHECK violation for zero units")
	}
}

func TestPlanRepository_ListOrdered(t *testing.T) {
	db := setupTestDB(t)
	seedPlan(t, db, "PLAN-B", 4)
	seedPlan(t, db, "PLAN-A", 8)

	plans, err := sqlite.NewPlanRepository(db).List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(plans) != 2 || plans[0].ID != "PLAN-A" || plans[1].ID != "PLAN-B" {
		t.Errorf("List order = %v", plans)
	}
}
