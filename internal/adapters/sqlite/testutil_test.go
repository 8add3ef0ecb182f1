// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/lessonbook/internal/db"
)

const testTime = "2026-03-01T09:00:00Z"

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, role string) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO users (id, name, role, active, created_at) VALUES (?, ?, ?, 1, ?)", id, "User "+id, role, testTime)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedPlan inserts a test plan and returns its ID.
func seedPlan(t *testing.T, db *sql.DB, id string, total int) string {
	t.Helper()
	_, err := db.Exec("INSERT INTO plans (id, name, total_units, created_at) VALUES (?, ?, ?, ?)", id, "Plan "+id, total, testTime)
	if err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}
	return id
}

// seedContract inserts an active contract for workerID on planID.
func seedContract(t *testing.T, db *sql.DB, id, workerID, planID string) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO contracts (id, worker_id, customer_id, plan_id, status, created_at, updated_at)
		VALUES (?, ?, 'CUST-1', ?, 'active', ?, ?)`, id, workerID, planID, testTime, testTime)
	if err != nil {
		t.Fatalf("failed to seed contract: %v", err)
	}
	return id
}

// seedAppointment inserts an open appointment.
func seedAppointment(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	_, err := db.Exec(`INSERT INTO appointments (id, candidate_name, specialty, status, created_by, created_at, updated_at)
		VALUES (?, 'Jo Park', 'piano', 'open', 'USR-ADMIN', ?, ?)`, id, testTime, testTime)
	if err != nil {
		t.Fatalf("failed to seed appointment: %v", err)
	}
	return id
}
