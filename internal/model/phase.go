package model

// PhaseConfig declares which destination kinds are legal to assign in a
// workflow phase. The zero value disables everything, so unknown phases
// fail closed.
type PhaseConfig struct {
	Store bool
	Site  bool
	Spare bool
	Live  bool
}

// Allows reports whether the phase permits assigning to kind.
func (c PhaseConfig) Allows(k Kind) bool {
	switch k {
	case KindStore:
		return c.Store
	case KindSite:
		return c.Site
	case KindSpare:
		return c.Spare
	case KindLive:
		return c.Live
	}
	return false
}

// phase holds the destination toggles and the dispatch_from tag the
// backend expects for submissions originating in that phase.
type phase struct {
	config PhaseConfig
	from   string
}

var phases = map[string]phase{
	"Approve PO": {PhaseConfig{Store: true, Site: true}, "inspection"},
	"At Store":   {PhaseConfig{Store: true, Site: true}, "store"},
	"On Site":    {PhaseConfig{Site: true, Spare: true, Live: true}, "site"},
	"OEM Spare":  {PhaseConfig{Site: true, Live: true}, "spare"},
	"Live":       {PhaseConfig{Site: true, Spare: true}, "live"},
}

// PhaseFor returns the destination configuration for a phase name.
// Unknown phases return the zero config (nothing assignable).
func PhaseFor(name string) PhaseConfig {
	return phases[name].config
}

// DispatchFrom returns the backend's originating-phase tag, or "" if the
// phase is unknown.
func DispatchFrom(name string) string {
	return phases[name].from
}

// KnownPhase reports whether the phase name is in the table.
func KnownPhase(name string) bool {
	_, ok := phases[name]
	return ok
}
