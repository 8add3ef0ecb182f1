package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: one
// administrator, three workers, and a handful of plans.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	users := []struct{ id, name, role string }{
		{"USR-ADMIN", "Office Admin", "admin"},
		{"USR-001", "Aiko Tanaka", "worker"},
		{"USR-002", "Ben Okafor", "worker"},
		{"USR-003", "Clara Schmidt", "worker"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, name, role, active, created_at) VALUES (?, ?, ?, 1, ?) ON CONFLICT(id) DO NOTHING",
			u.id, u.name, u.role, now,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	plans := []struct {
		id, name string
		total    int
	}{
		{"PLAN-4", "Starter (4 lessons)", 4},
		{"PLAN-8", "Standard (8 lessons)", 8},
		{"PLAN-10", "Intensive (10 lessons)", 10},
	}
	for _, p := range plans {
		if _, err := database.Exec(
			"INSERT INTO plans (id, name, total_units, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(id) DO NOTHING",
			p.id, p.name, p.total, now,
		); err != nil {
			return fmt.Errorf("seed plans: %w", err)
		}
	}

	return nil
}
