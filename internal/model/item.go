package model

// Item is one physical, serial-numbered instance under a purchase order
// line item, as returned by the procurement backend. Items are immutable
// on this side; only their assignment changes.
type Item struct {
	LineItemID      int64  `json:"po_line_item_id"`
	ItemDetailsID   int64  `json:"po_item_details_id"`
	Status          string `json:"po_item_status"`
	SerialNumber    string `json:"item_serial_number"`
	TypeName        string `json:"item_type_name"`
	MakeName        string `json:"item_make_name"`
	ModelName       string `json:"item_model_name"`
	PartCode        string `json:"item_part_code"`
	PartDescription string `json:"item_part_description"`
	ProjectNumber   string `json:"project_number"`
	Location        string `json:"item_location"`
	LastOwner       string `json:"last_owner"`
}

// Key identifies an item across the whole dispatch workflow.
type Key struct {
	LineItemID    int64 `json:"po_line_item_id"`
	ItemDetailsID int64 `json:"po_item_details_id"`
}

// Key returns the item's identity tuple.
func (it Item) Key() Key {
	return Key{LineItemID: it.LineItemID, ItemDetailsID: it.ItemDetailsID}
}

// Statuses in which an item is still eligible for (re)assignment. Items in
// any other status are shown read-only with their last known location and
// owner.
var actionableStatuses = map[string]bool{
	"Inspection Approved":     true,
	"Item Received at Store":  true,
	"Item Received at Site":   true,
	"Item Rejected at Store":  true,
	"Item Rejected at Site":   true,
	"Item in Spare Inventory": true,
	"Item Commissioned":       true,
}

// Actionable reports whether the item may be assigned to a destination.
func (it Item) Actionable() bool {
	return actionableStatuses[it.Status]
}

// LineItem is one row of a purchase order, grouping multiple item details.
type LineItem struct {
	LineItemID int64    `json:"po_line_item_id"`
	Name       string   `json:"line_item_name"`
	Phases     []string `json:"phases"`
	Items      []Item   `json:"po_item_details"`
}

// ActionableKeys returns the keys of all items on the line item that are
// still eligible for assignment.
func (li LineItem) ActionableKeys() []Key {
	var keys []Key
	for _, it := range li.Items {
		if it.Actionable() {
			keys = append(keys, it.Key())
		}
	}
	return keys
}

// PurchaseOrder is the backend's items-for-dispatch payload.
type PurchaseOrder struct {
	Number      string     `json:"po_number"`
	Description string     `json:"po_description"`
	LineItems   []LineItem `json:"po_line_items"`
}
