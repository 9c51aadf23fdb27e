package model

import (
	"encoding/json"
	"testing"
)

func TestActionable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"Inspection Approved", true},
		{"Item Received at Store", true},
		{"Item Received at Site", true},
		{"Item Rejected at Store", true},
		{"Item Rejected at Site", true},
		{"Item in Spare Inventory", true},
		{"Item Commissioned", true},
		{"Awaiting Inspection", false},
		{"Dispatched", false},
		{"", false},
	}

	for _, tt := range tests {
		it := Item{Status: tt.status}
		if got := it.Actionable(); got != tt.want {
			t.Errorf("Actionable(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestPhaseForUnknownDisablesEverything(t *testing.T) {
	cfg := PhaseFor("Decommissioned")
	for _, k := range Kinds {
		if cfg.Allows(k) {
			t.Errorf("unknown phase allows %s", k)
		}
	}
}

func TestPhaseAtStore(t *testing.T) {
	cfg := PhaseFor("At Store")
	if !cfg.Allows(KindStore) || !cfg.Allows(KindSite) {
		t.Error("At Store should allow store and site")
	}
	if cfg.Allows(KindSpare) || cfg.Allows(KindLive) {
		t.Error("At Store should not allow spare or live")
	}
}

func TestDispatchFrom(t *testing.T) {
	if got := DispatchFrom("Approve PO"); got != "inspection" {
		t.Errorf("DispatchFrom(Approve PO) = %q, want inspection", got)
	}
	if got := DispatchFrom("nope"); got != "" {
		t.Errorf("DispatchFrom(nope) = %q, want empty", got)
	}
}

func TestPurchaseOrderToleratesPartialPayload(t *testing.T) {
	// Missing and unknown fields must decode to zero values, not fail.
	raw := `{
		"po_number": "PO-1",
		"po_line_items": [
			{"po_line_item_id": 1, "po_item_details": [
				{"po_item_details_id": 101, "unexpected_field": {"nested": true}}
			]}
		]
	}`

	var po PurchaseOrder
	if err := json.Unmarshal([]byte(raw), &po); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(po.LineItems) != 1 || len(po.LineItems[0].Items) != 1 {
		t.Fatalf("unexpected structure: %+v", po)
	}
	it := po.LineItems[0].Items[0]
	if it.ItemDetailsID != 101 || it.SerialNumber != "" || it.LineItemID != 0 {
		t.Errorf("unexpected item: %+v", it)
	}
}

func TestLineItemActionableKeys(t *testing.T) {
	li := LineItem{
		LineItemID: 1,
		Items: []Item{
			{LineItemID: 1, ItemDetailsID: 101, Status: "Inspection Approved"},
			{LineItemID: 1, ItemDetailsID: 102, Status: "Dispatched"},
			{LineItemID: 1, ItemDetailsID: 103, Status: "Item Received at Store"},
		},
	}

	keys := li.ActionableKeys()
	if len(keys) != 2 {
		t.Fatalf("expected 2 actionable keys, got %d", len(keys))
	}
	if keys[0].ItemDetailsID != 101 || keys[1].ItemDetailsID != 103 {
		t.Errorf("unexpected keys: %+v", keys)
	}
}
