package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: index claims by item for the admin review queue and the
	// per-item claim history.
	`CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id)`,
	// Migration 2: index items by security point for the per-desk admin
	// listing.
	`CREATE INDEX IF NOT EXISTS idx_items_security_point ON items(security_point_id)`,
}

// Migrate creates the schema and runs the migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
