package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Claims and audits are append-only
// history tables owned by their item: the foreign keys cascade on delete
// so neither can outlive its parent row.
const schema = `
CREATE TABLE IF NOT EXISTS admins (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS items (
    id               TEXT PRIMARY KEY,
    name             TEXT NOT NULL,
    category         TEXT,
    location         TEXT,
    description      TEXT,
    reporter_name    TEXT,
    reporter_contact TEXT,
    image            TEXT,
    photo            BLOB,
    photo_mime       TEXT,
    status           TEXT NOT NULL DEFAULT 'pending'
                     CHECK (status IN ('pending', 'approved', 'rejected', 'claimed')),
    claimed_by       TEXT,
    claimed_contact  TEXT,
    last_action          TEXT,
    last_admin_id        INTEGER,
    last_admin_username  TEXT,
    last_action_at       DATETIME,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_items_status ON items(status);

CREATE TABLE IF NOT EXISTS claims (
    id         INTEGER PRIMARY KEY,
    item_id    TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    full_name  TEXT NOT NULL,
    contact    TEXT NOT NULL,
    note       TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_claims_item ON claims(item_id);

CREATE TABLE IF NOT EXISTS audits (
    id             INTEGER PRIMARY KEY,
    item_id        TEXT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
    admin_id       INTEGER NOT NULL,
    admin_username TEXT NOT NULL,
    action         TEXT NOT NULL,
    note           TEXT,
    created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audits_item ON audits(item_id);

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
