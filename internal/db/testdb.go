package db

import (
	"database/sql"
	"testing"
)

// NewTestDB opens an in-memory database for one test, migrated and ready
// to use. The pool is capped at a single connection because every new
// in-memory connection would start out empty.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	return db
}
