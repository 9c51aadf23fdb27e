package dispatch

import (
	"fmt"

	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/registry"
)

// StoreEntry is the wire form of one store assignment.
type StoreEntry struct {
	LineItemID    int64 `json:"po_line_item_id"`
	ItemDetailsID int64 `json:"po_item_details_id"`
	StoreID       int64 `json:"store_id"`
	InchargeID    int64 `json:"store_incharge_user_id"`
}

// SiteEntry is the wire form of one site assignment.
type SiteEntry struct {
	LineItemID    int64 `json:"po_line_item_id"`
	ItemDetailsID int64 `json:"po_item_details_id"`
	SiteID        int64 `json:"site_id"`
	InchargeID    int64 `json:"site_incharge_user_id"`
}

// KeyEntry is the wire form of a spare or live assignment.
type KeyEntry struct {
	LineItemID    int64 `json:"po_line_item_id"`
	ItemDetailsID int64 `json:"po_item_details_id"`
}

// RequestBody is the backend's dispatch submission payload. Submission
// is one atomic request for the entire registry; there is no per-item
// submission.
type RequestBody struct {
	PoID         int64        `json:"po_id"`
	DispatchFrom string       `json:"dispatch_from"`
	Stores       []StoreEntry `json:"stores"`
	Sites        []SiteEntry  `json:"sites"`
	Spares       []KeyEntry   `json:"spares"`
	Lives        []KeyEntry   `json:"lives"`
}

// Serialize flattens the registry into the wire format, resolving refs
// down to their raw ids and stamping dispatch_from from the originating
// phase. It refuses to serialize a registry that fails Validate.
func Serialize(reg *registry.Registry, poID int64, phase string) (*RequestBody, error) {
	if res := Validate(reg); !res.Valid {
		return nil, fmt.Errorf("cannot serialize dispatch: %s", res.Reason)
	}
	from := model.DispatchFrom(phase)
	if from == "" {
		return nil, fmt.Errorf("cannot serialize dispatch: unknown phase %q", phase)
	}

	body := &RequestBody{
		PoID:         poID,
		DispatchFrom: from,
		Stores:       []StoreEntry{},
		Sites:        []SiteEntry{},
		Spares:       []KeyEntry{},
		Lives:        []KeyEntry{},
	}

	for _, a := range reg.Get(model.KindStore) {
		body.Stores = append(body.Stores, StoreEntry{
			LineItemID:    a.LineItemID,
			ItemDetailsID: a.ItemDetailsID,
			StoreID:       a.Location.ID,
			InchargeID:    a.Custodian.ID,
		})
	}
	for _, a := range reg.Get(model.KindSite) {
		body.Sites = append(body.Sites, SiteEntry{
			LineItemID:    a.LineItemID,
			ItemDetailsID: a.ItemDetailsID,
			SiteID:        a.Location.ID,
			InchargeID:    a.Custodian.ID,
		})
	}
	for _, a := range reg.Get(model.KindSpare) {
		body.Spares = append(body.Spares, KeyEntry{
			LineItemID:    a.LineItemID,
			ItemDetailsID: a.ItemDetailsID,
		})
	}
	for _, a := range reg.Get(model.KindLive) {
		body.Lives = append(body.Lives, KeyEntry{
			LineItemID:    a.LineItemID,
			ItemDetailsID: a.ItemDetailsID,
		})
	}

	return body, nil
}
