package registry

import "github.com/erazemk/odprema/internal/model"

// Propagate applies value to the named attribute of every assignment in
// kind's collection belonging to the line item that does not have it set
// yet. Attributes the user already picked per item are never
// overwritten. Returns true if at least one assignment changed, so
// callers can skip redundant re-renders.
func (r *Registry) Propagate(kind model.Kind, attr string, value model.Ref, lineItemID int64) bool {
	if !kind.Valid() || !kind.HasAttributes() {
		return false
	}
	if attr != model.AttrLocation && attr != model.AttrCustodian {
		return false
	}

	changed := false
	for i := range r.cols[kind] {
		a := &r.cols[kind][i]
		if a.LineItemID != lineItemID {
			continue
		}
		if a.Attribute(attr) != nil {
			continue
		}
		v := value
		a.SetAttribute(attr, &v)
		changed = true
	}
	return changed
}
