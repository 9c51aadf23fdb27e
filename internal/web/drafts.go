package web

import (
	"sync"

	"github.com/erazemk/odprema/internal/cluster"
	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/registry"
)

// Draft is one user's in-progress assignment registry for a purchase
// order. It lives only in memory: discarded on cancel or logout, and
// cleared after a successful submission. Mutations are serialized by the
// draft's mutex, so every toggle observes the result of all previous
// ones.
type Draft struct {
	mu    sync.Mutex
	PoID  int64
	Phase string
	PO    *model.PurchaseOrder
	Reg   *registry.Registry
}

// With runs fn with exclusive access to the draft's registry engine.
func (d *Draft) With(fn func(*registry.Engine)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(registry.NewEngine(d.Reg, model.PhaseFor(d.Phase)))
}

// Item finds an item in the draft's purchase order, or nil.
func (d *Draft) Item(key model.Key) *model.Item {
	for li := range d.PO.LineItems {
		if d.PO.LineItems[li].LineItemID != key.LineItemID {
			continue
		}
		for i := range d.PO.LineItems[li].Items {
			if d.PO.LineItems[li].Items[i].ItemDetailsID == key.ItemDetailsID {
				return &d.PO.LineItems[li].Items[i]
			}
		}
	}
	return nil
}

// LineItem finds a line item in the draft's purchase order, or nil.
func (d *Draft) LineItem(lineItemID int64) *model.LineItem {
	for i := range d.PO.LineItems {
		if d.PO.LineItems[i].LineItemID == lineItemID {
			return &d.PO.LineItems[i]
		}
	}
	return nil
}

// Clusters projects the draft's items into filtered display clusters.
func (d *Draft) Clusters(rows []cluster.FilterRow) []cluster.Cluster {
	var items []model.Item
	for _, li := range d.PO.LineItems {
		items = append(items, li.Items...)
	}
	return cluster.Filter(cluster.Build(items), rows)
}

type draftKey struct {
	sessionID string
	poID      int64
}

// Drafts tracks every open draft by (session, purchase order).
type Drafts struct {
	mu sync.Mutex
	m  map[draftKey]*Draft
}

// NewDrafts creates an empty draft tracker.
func NewDrafts() *Drafts {
	return &Drafts{m: make(map[draftKey]*Draft)}
}

// Open creates (or replaces) the draft for a purchase order with a
// fresh, empty registry.
func (ds *Drafts) Open(sessionID string, poID int64, phase string, po *model.PurchaseOrder) *Draft {
	d := &Draft{PoID: poID, Phase: phase, PO: po, Reg: registry.New()}
	ds.mu.Lock()
	ds.m[draftKey{sessionID, poID}] = d
	ds.mu.Unlock()
	return d
}

// Get returns the open draft for a purchase order, if any.
func (ds *Drafts) Get(sessionID string, poID int64) (*Draft, bool) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	d, ok := ds.m[draftKey{sessionID, poID}]
	return d, ok
}

// Discard drops a draft without submitting it.
func (ds *Drafts) Discard(sessionID string, poID int64) {
	ds.mu.Lock()
	delete(ds.m, draftKey{sessionID, poID})
	ds.mu.Unlock()
}

// DiscardSession drops all drafts of a session (logout).
func (ds *Drafts) DiscardSession(sessionID string) {
	ds.mu.Lock()
	for k := range ds.m {
		if k.sessionID == sessionID {
			delete(ds.m, k)
		}
	}
	ds.mu.Unlock()
}
