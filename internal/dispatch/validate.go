// Package dispatch checks a draft registry for completeness and turns it
// into the backend's dispatch request body.
package dispatch

import (
	"fmt"

	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/registry"
)

// Result is the outcome of validating a registry. Validation is a pure
// predicate: an invalid registry is a user-correctable form state, not an
// error condition.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Validate checks that the registry can be submitted: at least one
// assignment exists, and every store/site assignment carries a location
// and custodian. Spare and live assignments are key-only and need no
// attribute checks.
func Validate(reg *registry.Registry) Result {
	if reg.Empty() {
		return Result{Reason: "no items assigned to any destination"}
	}

	for _, kind := range []model.Kind{model.KindStore, model.KindSite} {
		for _, a := range reg.Get(kind) {
			if a.Location == nil {
				return Result{Reason: fmt.Sprintf(
					"%s assignment for item %d on line item %d has no location",
					kind, a.ItemDetailsID, a.LineItemID)}
			}
			if a.Custodian == nil {
				return Result{Reason: fmt.Sprintf(
					"%s assignment for item %d on line item %d has no custodian",
					kind, a.ItemDetailsID, a.LineItemID)}
			}
		}
	}

	return Result{Valid: true}
}
