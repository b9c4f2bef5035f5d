package sqliterepo

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest schema version supported by the migrator.
const SchemaVersion = 1

var schemaV1 = []struct {
	name string
	sql  string
}{
	{"create user_credentials table", `
		CREATE TABLE IF NOT EXISTS user_credentials (
			user_id TEXT PRIMARY KEY,
			key_salt BLOB NOT NULL,
			key_hash BLOB NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`},
	{"create adventure_states table", `
		CREATE TABLE IF NOT EXISTS adventure_states (
			user_id TEXT PRIMARY KEY,
			is_running INTEGER NOT NULL DEFAULT 0,
			adventure_ordinal INTEGER NOT NULL DEFAULT 1,
			energy INTEGER NOT NULL DEFAULT 0,
			energy_capacity INTEGER NOT NULL DEFAULT 15,
			pending_reward INTEGER NOT NULL DEFAULT 0,
			run_started_at_ms INTEGER NULL,
			run_ends_at_ms INTEGER NULL,
			updated_at TEXT NOT NULL
		);`},
	{"create wallets table", `
		CREATE TABLE IF NOT EXISTS wallets (
			user_id TEXT PRIMARY KEY,
			diamonds INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`},
	{"create quests table", `
		CREATE TABLE IF NOT EXISTS quests (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			energy INTEGER NOT NULL,
			icon_path TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`},
	{"create adventure_events table", `
		CREATE TABLE IF NOT EXISTS adventure_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			occurred_at TEXT NOT NULL,
			payload TEXT NOT NULL
		);`},
	{"create idx_quests_user_created", `CREATE INDEX IF NOT EXISTS idx_quests_user_created ON quests(user_id, created_at);`},
	{"create idx_adventure_events_user_id", `CREATE INDEX IF NOT EXISTS idx_adventure_events_user_id ON adventure_events(user_id, id);`},
}

// Migrate ensures the sqlite schema exists and is upgraded to SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, step := range schemaV1 {
		if _, err := tx.Exec(step.sql); err != nil {
			return fmt.Errorf("migrate: %s: %w", step.name, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations(version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit transaction: %w", err)
	}
	return nil
}
