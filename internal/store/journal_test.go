package store

import (
	"context"
	"testing"

	"github.com/erazemk/odprema/internal/db"
	"github.com/erazemk/odprema/internal/dispatch"
)

func TestRecordAndListDispatches(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	body := &dispatch.RequestBody{
		PoID:         42,
		DispatchFrom: "store",
		Stores:       []dispatch.StoreEntry{{LineItemID: 1, ItemDetailsID: 101, StoreID: 55, InchargeID: 9}},
		Sites:        []dispatch.SiteEntry{},
		Spares:       []dispatch.KeyEntry{{LineItemID: 1, ItemDetailsID: 102}, {LineItemID: 1, ItemDetailsID: 103}},
		Lives:        []dispatch.KeyEntry{},
	}

	if err := RecordDispatch(ctx, database, body, "ana"); err != nil {
		t.Fatalf("RecordDispatch: %v", err)
	}

	records, err := ListDispatches(ctx, database, 10)
	if err != nil {
		t.Fatalf("ListDispatches: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	r := records[0]
	if r.PoID != 42 || r.DispatchFrom != "store" || r.SubmittedBy != "ana" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.StoreCount != 1 || r.SpareCount != 2 || r.SiteCount != 0 || r.LiveCount != 0 {
		t.Errorf("unexpected counts: %+v", r)
	}
}

func TestListDispatchesEmpty(t *testing.T) {
	database := db.NewTestDB(t)

	records, err := ListDispatches(context.Background(), database, 0)
	if err != nil {
		t.Fatalf("ListDispatches: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
