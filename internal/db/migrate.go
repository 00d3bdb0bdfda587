package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// One row holds the whole board. revision increases on every save so
	// other processes can detect external writes cheaply.
	`CREATE TABLE IF NOT EXISTS board_snapshots (
		id         TEXT PRIMARY KEY CHECK(id = 'current'),
		payload    TEXT NOT NULL,
		revision   INTEGER NOT NULL DEFAULT 0 CHECK(revision >= 0),
		updated_at INTEGER NOT NULL DEFAULT 0,
		saved_at   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_history (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		payload    TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0,
		saved_at   TEXT NOT NULL
	)`,
	`ALTER TABLE snapshot_history ADD COLUMN reason TEXT NOT NULL DEFAULT ''`,
	`CREATE INDEX IF NOT EXISTS idx_snapshot_history_saved ON snapshot_history(saved_at)`,
}
