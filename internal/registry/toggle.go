package registry

import "github.com/erazemk/odprema/internal/model"

// Engine flips destination membership while preserving the invariant
// that each item key appears in at most one of the four collections.
// It consults the phase configuration before doing anything: a kind not
// enabled in the current phase makes the whole call a no-op, including
// the exclusivity removal step.
type Engine struct {
	reg   *Registry
	phase model.PhaseConfig
}

// NewEngine wraps a registry with a phase configuration.
func NewEngine(reg *Registry, phase model.PhaseConfig) *Engine {
	return &Engine{reg: reg, phase: phase}
}

// Registry returns the underlying registry.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// ToggleSingle assigns key to kind, or unassigns it if it is already
// there. Any assignment for key in the other three collections is
// removed first. Returns true if the registry changed.
func (e *Engine) ToggleSingle(kind model.Kind, key model.Key) bool {
	if !kind.Valid() || !e.phase.Allows(kind) {
		return false
	}

	for _, other := range model.Kinds {
		if other != kind {
			e.reg.Remove(other, key)
		}
	}

	if e.reg.Contains(kind, key) {
		e.reg.Remove(kind, key)
		return true
	}
	e.reg.Upsert(kind, key, nil, nil)
	return true
}

// ToggleAll is the select-all/deselect-all form of ToggleSingle over the
// keys of one line item. If every key is already assigned to kind, all
// are removed; otherwise all end up assigned to kind with fresh empty
// attributes. Either way the keys leave the other three collections.
func (e *Engine) ToggleAll(kind model.Kind, keys []model.Key) bool {
	if !kind.Valid() || !e.phase.Allows(kind) || len(keys) == 0 {
		return false
	}

	allSelected := true
	for _, key := range keys {
		if !e.reg.Contains(kind, key) {
			allSelected = false
			break
		}
	}

	for _, key := range keys {
		for _, k := range model.Kinds {
			e.reg.Remove(k, key)
		}
	}

	if !allSelected {
		for _, key := range keys {
			e.reg.Upsert(kind, key, nil, nil)
		}
	}
	return true
}
