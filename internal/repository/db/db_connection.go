package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// The scheduler jobs and the HTTP layer share one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

// Timestamps are stored as fixed-width UTC text (see repository.timeLayout)
// so that lexical comparison matches chronological order.

const schemaPlants = `
CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    species TEXT,
    type TEXT NOT NULL DEFAULT 'manual',
    status TEXT NOT NULL DEFAULT 'active',
    location TEXT,
    sunlight TEXT,
    pot_size TEXT,
    geo TEXT,
    planted_at TEXT NOT NULL,
    expected_growth_days INTEGER,
    predicted_harvest_at TEXT,
    growth_stage TEXT NOT NULL DEFAULT 'seedling',
    watering_interval_days INTEGER NOT NULL DEFAULT 2,
    fertilizer_interval_days INTEGER NOT NULL DEFAULT 14,
    created_at TEXT NOT NULL,
    deleted_at TEXT
);
`

const schemaReminders = `
CREATE TABLE IF NOT EXISTS reminders (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    kind TEXT NOT NULL DEFAULT 'water',
    note TEXT,
    next_at TEXT NOT NULL,
    repeat_days INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);
`

const schemaRemindersDueIndex = `
CREATE INDEX IF NOT EXISTS idx_reminders_next_at ON reminders (next_at);
`

const schemaAlerts = `
CREATE TABLE IF NOT EXISTS alerts (
    id TEXT PRIMARY KEY,
    plant_id TEXT,
    title TEXT NOT NULL,
    message TEXT,
    level TEXT NOT NULL DEFAULT 'info',
    meta TEXT,
    created_at TEXT NOT NULL,
    read BOOLEAN NOT NULL DEFAULT 0
);
`

const schemaCareLogs = `
CREATE TABLE IF NOT EXISTS care_logs (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    image_url TEXT,
    health_score INTEGER NOT NULL DEFAULT 0,
    summary TEXT,
    analysis TEXT,
    raw_analysis TEXT,
    created_at TEXT NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaPlants,
		schemaReminders,
		schemaRemindersDueIndex,
		schemaAlerts,
		schemaCareLogs,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
