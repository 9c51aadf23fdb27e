package db

import (
	"database/sql"
	"fmt"
)

// schema is the full local database schema. The front end keeps only
// two things durable: web sessions and a journal of submitted
// dispatches. Draft assignments are deliberately never persisted.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    access_token  TEXT NOT NULL,
    refresh_token BLOB NOT NULL,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    expires_at    DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);

CREATE TABLE IF NOT EXISTS dispatch_journal (
    id            INTEGER PRIMARY KEY,
    po_id         INTEGER NOT NULL,
    dispatch_from TEXT NOT NULL,
    store_count   INTEGER NOT NULL DEFAULT 0,
    site_count    INTEGER NOT NULL DEFAULT 0,
    spare_count   INTEGER NOT NULL DEFAULT 0,
    live_count    INTEGER NOT NULL DEFAULT 0,
    submitted_by  TEXT NOT NULL,
    submitted_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_dispatch_journal_po ON dispatch_journal(po_id);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
