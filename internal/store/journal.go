package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/odprema/internal/dispatch"
)

// DispatchRecord is one successfully submitted dispatch, kept locally so
// users can see what already went out. The assignments themselves are
// not persisted; the backend owns them after submission.
type DispatchRecord struct {
	ID           int64
	PoID         int64
	DispatchFrom string
	StoreCount   int
	SiteCount    int
	SpareCount   int
	LiveCount    int
	SubmittedBy  string
	SubmittedAt  time.Time
}

// RecordDispatch journals a submitted request body.
func RecordDispatch(ctx context.Context, db *sql.DB, body *dispatch.RequestBody, submittedBy string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO dispatch_journal
		     (po_id, dispatch_from, store_count, site_count, spare_count, live_count, submitted_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		body.PoID, body.DispatchFrom,
		len(body.Stores), len(body.Sites), len(body.Spares), len(body.Lives),
		submittedBy,
	)
	if err != nil {
		return fmt.Errorf("recording dispatch: %w", err)
	}
	return nil
}

// ListDispatches returns the most recent journal entries, newest first.
func ListDispatches(ctx context.Context, db *sql.DB, limit int) ([]DispatchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, po_id, dispatch_from, store_count, site_count, spare_count, live_count,
		        submitted_by, submitted_at
		 FROM dispatch_journal
		 ORDER BY submitted_at DESC, id DESC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing dispatches: %w", err)
	}
	defer rows.Close()

	var records []DispatchRecord
	for rows.Next() {
		var r DispatchRecord
		if err := rows.Scan(&r.ID, &r.PoID, &r.DispatchFrom, &r.StoreCount, &r.SiteCount,
			&r.SpareCount, &r.LiveCount, &r.SubmittedBy, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scanning dispatch record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
