package db

// SchemaSQL is the complete schema for fresh lessonbook installs.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All repository
// tests load it via GetSchemaSQL(); if repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration to migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Users (identity provider backing store)
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL CHECK (role IN ('worker', 'admin')),
	active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL
);

-- Plans (catalog of lesson bundles; pricing lives elsewhere)
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	total_units INTEGER NOT NULL CHECK (total_units > 0),
	created_at TEXT NOT NULL
);

-- Contracts (purchased bundles)
CREATE TABLE IF NOT EXISTS contracts (
	id TEXT PRIMARY KEY,
	worker_id TEXT NOT NULL REFERENCES users(id),
	customer_id TEXT NOT NULL,
	plan_id TEXT NOT NULL REFERENCES plans(id),
	status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'cancelled')),
	summary TEXT NOT NULL DEFAULT '0/0',
	completion_dates TEXT NOT NULL DEFAULT '[]',
	note TEXT,
	version INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	completed_at TEXT
);

CREATE INDEX IF NOT EXISTS idx_contracts_worker ON contracts(worker_id);

-- Lessons (units of a contract)
CREATE TABLE IF NOT EXISTS lessons (
	id TEXT PRIMARY KEY,
	contract_id TEXT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
	seq INTEGER NOT NULL CHECK (seq > 0),
	completed_on TEXT,
	note TEXT,
	available INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT NOT NULL,
	UNIQUE (contract_id, seq)
);

-- Appointments (competitively claimable slots)
CREATE TABLE IF NOT EXISTS appointments (
	id TEXT PRIMARY KEY,
	candidate_name TEXT NOT NULL,
	specialty TEXT NOT NULL,
	contact TEXT,
	status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'assigned', 'accepted')),
	claimed_by TEXT REFERENCES users(id),
	created_by TEXT NOT NULL,
	version INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	CHECK ((status = 'open') = (claimed_by IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_appointments_status ON appointments(status);

-- Notifications (one row per recipient; '' recipient is administrator-visible)
CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	entity_type TEXT NOT NULL CHECK (entity_type IN ('contract', 'appointment')),
	entity_id TEXT NOT NULL,
	recipient_id TEXT NOT NULL DEFAULT '',
	message TEXT NOT NULL,
	read INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (entity_type, entity_id, recipient_id, type)
);

CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, read);

-- Operation log (append-only audit trail)
CREATE TABLE IF NOT EXISTS operation_log (
	id TEXT PRIMARY KEY,
	seq INTEGER NOT NULL,
	entity_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK (outcome IN ('started', 'success', 'failed')),
	error TEXT,
	actor_id TEXT,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_operation_log_entity ON operation_log(entity_id, seq);

CREATE TRIGGER IF NOT EXISTS operation_log_append_only
BEFORE UPDATE ON operation_log
BEGIN
	SELECT RAISE(ABORT, 'operation_log is append-only');
END;
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
