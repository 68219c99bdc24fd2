// Package migrations provides embedded SQL migration files.
package migrations

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/001_initial.sql
var InitialSQL string

//go:embed sql/002_legacy_subtitles.sql
var Migration002LegacySubtitles string

// Apply runs all migrations in order.
// Each migration is idempotent so Apply can run on every startup.
func Apply(db *sql.DB) error {
	if _, err := db.Exec(InitialSQL); err != nil {
		return fmt.Errorf("apply initial schema: %w", err)
	}
	if _, err := db.Exec(Migration002LegacySubtitles); err != nil {
		// ALTER TABLE ADD COLUMN has no IF NOT EXISTS in SQLite.
		if !strings.Contains(err.Error(), "duplicate column name") {
			return fmt.Errorf("apply migration 002: %w", err)
		}
	}
	return nil
}
