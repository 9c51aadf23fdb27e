package model

// Kind is one of the four mutually exclusive destinations an item can be
// routed to.
type Kind string

// Destination kinds.
const (
	KindStore Kind = "store"
	KindSite  Kind = "site"
	KindSpare Kind = "spare"
	KindLive  Kind = "live"
)

// Kinds lists all destination kinds in collection order.
var Kinds = []Kind{KindStore, KindSite, KindSpare, KindLive}

// Valid reports whether k is a known destination kind.
func (k Kind) Valid() bool {
	switch k {
	case KindStore, KindSite, KindSpare, KindLive:
		return true
	}
	return false
}

// HasAttributes reports whether assignments of this kind carry a location
// and custodian. Spare and live assignments are key-only.
func (k Kind) HasAttributes() bool {
	return k == KindStore || k == KindSite
}

// Ref is a tagged reference to a backend entity (location or user). The
// label is for display only; the raw id is extracted at the serialization
// boundary and nowhere else.
type Ref struct {
	ID    int64  `json:"id"`
	Label string `json:"name"`
}

// Attribute names accepted by SetAttribute and Propagate.
const (
	AttrLocation  = "location"
	AttrCustodian = "custodian"
)

// Assignment routes one item to one destination. Location and Custodian
// are nil until the user picks them (and stay nil for spare/live kinds).
type Assignment struct {
	Key
	Location  *Ref `json:"location,omitempty"`
	Custodian *Ref `json:"custodian,omitempty"`
}

// Attribute returns the named attribute, or nil if unset or unknown.
func (a *Assignment) Attribute(name string) *Ref {
	switch name {
	case AttrLocation:
		return a.Location
	case AttrCustodian:
		return a.Custodian
	}
	return nil
}

// SetAttribute sets the named attribute. Unknown names are ignored.
func (a *Assignment) SetAttribute(name string, value *Ref) {
	switch name {
	case AttrLocation:
		a.Location = value
	case AttrCustodian:
		a.Custodian = value
	}
}
