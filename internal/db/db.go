package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/lessonbook/internal/config"
)

var (
	shared     *sql.DB
	sharedErr  error
	sharedOnce sync.Once
)

// pragmas applied to every connection before use.
var pragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// Open opens (creating if needed) the database at path, applies pragmas and
// brings the schema up to date. Use ":memory:" for an ephemeral database.
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serialises writers and keeps :memory: databases
	// shared across the pool.
	database.SetMaxOpenConns(1)

	for _, p := range pragmas {
		if _, err := database.Exec(p); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// GetDB returns the process-wide database connection, opening it from the
// loaded configuration on first use.
func GetDB() (*sql.DB, error) {
	sharedOnce.Do(func() {
		cwd, err := os.Getwd()
		if err != nil {
			sharedErr = fmt.Errorf("failed to get working directory: %w", err)
			return
		}
		cfg, err := config.Load(cwd)
		if err != nil {
			sharedErr = err
			return
		}
		shared, sharedErr = Open(cfg.DBPath)
	})
	return shared, sharedErr
}

// Close closes the shared database connection
func Close() error {
	if shared != nil {
		return shared.Close()
	}
	return nil
}

// InitSchema creates the schema on a fresh database and runs any pending
// migrations on an existing one.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	// Fresh install - create the current schema directly and mark every
	// migration as applied.
	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT OR IGNORE INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}
