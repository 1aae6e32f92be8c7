package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS buildings (
    id   INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS security_points (
    id          INTEGER PRIMARY KEY,
    building_id INTEGER NOT NULL REFERENCES buildings(id),
    name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
    id                INTEGER PRIMARY KEY,
    item_code         TEXT NOT NULL UNIQUE,
    title             TEXT NOT NULL,
    description       TEXT,
    category          TEXT NOT NULL,
    place_details     TEXT,
    hidden_detail     TEXT NOT NULL,
    is_high_value     INTEGER NOT NULL DEFAULT 0,
    building_id       INTEGER NOT NULL REFERENCES buildings(id),
    security_point_id INTEGER NOT NULL REFERENCES security_points(id),
    latitude          REAL NOT NULL DEFAULT 0,
    longitude         REAL NOT NULL DEFAULT 0,
    image             BLOB,
    image_mime        TEXT,
    status            TEXT NOT NULL DEFAULT 'stored' CHECK (status IN ('stored', 'claim_pending', 'claimed')),
    found_at          DATETIME NOT NULL,
    reported_by       INTEGER REFERENCES users(id),
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS claims (
    id                    INTEGER PRIMARY KEY,
    item_id               INTEGER NOT NULL REFERENCES items(id),
    claimed_by            INTEGER REFERENCES users(id),
    registration_number   TEXT NOT NULL,
    college_details       TEXT,
    hidden_detail_entered TEXT,
    likely_match          INTEGER NOT NULL DEFAULT 0,
    verification_result   TEXT CHECK (verification_result IN ('verified', 'rejected')),
    decided_by            INTEGER REFERENCES users(id),
    decided_at            DATETIME,
    pickup_photo          BLOB,
    pickup_photo_mime     TEXT,
    created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_claims_one_pending_per_item
    ON claims(item_id) WHERE verification_result IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
