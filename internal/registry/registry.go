// Package registry holds the four destination collections for one draft
// dispatch and the operations that mutate them. It is the single source
// of truth for "what is this item assigned to, and with what attributes".
//
// The registry itself does not enforce mutual exclusivity between the
// collections; that is the Engine's job. All methods are synchronous and
// the registry is not safe for concurrent use, so callers serialize
// access per draft.
package registry

import "github.com/erazemk/odprema/internal/model"

// Registry holds one ordered collection of assignments per destination
// kind. Order is irrelevant to correctness but preserved for UI
// stability.
type Registry struct {
	cols map[model.Kind][]model.Assignment
}

// New creates an empty registry with all four collections initialized.
func New() *Registry {
	cols := make(map[model.Kind][]model.Assignment, len(model.Kinds))
	for _, k := range model.Kinds {
		cols[k] = nil
	}
	return &Registry{cols: cols}
}

// Get returns the assignments in a destination collection, in insertion
// order. The returned slice is a copy.
func (r *Registry) Get(kind model.Kind) []model.Assignment {
	col := r.cols[kind]
	if col == nil {
		return nil
	}
	out := make([]model.Assignment, len(col))
	copy(out, col)
	return out
}

// index returns the position of key in kind's collection, or -1.
func (r *Registry) index(kind model.Kind, key model.Key) int {
	for i, a := range r.cols[kind] {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// Contains reports whether key has an assignment in kind's collection.
func (r *Registry) Contains(kind model.Kind, key model.Key) bool {
	return r.index(kind, key) >= 0
}

// KindOf returns the destination currently holding key, if any.
func (r *Registry) KindOf(key model.Key) (model.Kind, bool) {
	for _, k := range model.Kinds {
		if r.Contains(k, key) {
			return k, true
		}
	}
	return "", false
}

// Upsert inserts a new assignment for key in kind's collection, or
// replaces the attributes of the existing one. It touches no other
// collection.
func (r *Registry) Upsert(kind model.Kind, key model.Key, location, custodian *model.Ref) {
	if !kind.Valid() {
		return
	}
	a := model.Assignment{Key: key, Location: location, Custodian: custodian}
	if i := r.index(kind, key); i >= 0 {
		r.cols[kind][i] = a
		return
	}
	r.cols[kind] = append(r.cols[kind], a)
}

// Remove deletes key's assignment from kind's collection. No-op if
// absent.
func (r *Registry) Remove(kind model.Kind, key model.Key) {
	i := r.index(kind, key)
	if i < 0 {
		return
	}
	r.cols[kind] = append(r.cols[kind][:i], r.cols[kind][i+1:]...)
}

// SetAttribute partially updates one attribute of an existing assignment.
// No-op if no assignment exists for key in kind's collection; callers
// must Upsert (or toggle) first.
func (r *Registry) SetAttribute(kind model.Kind, key model.Key, attr string, value *model.Ref) {
	i := r.index(kind, key)
	if i < 0 {
		return
	}
	r.cols[kind][i].SetAttribute(attr, value)
}

// ClearLineItem removes every assignment for the line item across all
// four collections ("cut all").
func (r *Registry) ClearLineItem(lineItemID int64) {
	for _, k := range model.Kinds {
		col := r.cols[k][:0]
		for _, a := range r.cols[k] {
			if a.LineItemID != lineItemID {
				col = append(col, a)
			}
		}
		r.cols[k] = col
	}
}

// Empty reports whether all four collections are empty.
func (r *Registry) Empty() bool {
	for _, k := range model.Kinds {
		if len(r.cols[k]) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of assignments across all collections.
func (r *Registry) Len() int {
	n := 0
	for _, k := range model.Kinds {
		n += len(r.cols[k])
	}
	return n
}
