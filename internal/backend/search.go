package backend

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/erazemk/odprema/internal/model"
)

// MinQueryLength is the minimum number of characters before a remote
// lookup is issued.
const MinQueryLength = 3

// LookupFunc performs one remote search query.
type LookupFunc func(ctx context.Context, query string) ([]model.Ref, error)

// Searcher wraps a lookup with last-request-wins supersession. Each call
// bumps a generation counter; a result arriving after a newer query has
// started is discarded so the dropdown never shows stale candidates.
// Lookup failures degrade to an empty option list.
type Searcher struct {
	lookup LookupFunc
	gen    atomic.Uint64
}

// NewSearcher creates a searcher over the given lookup.
func NewSearcher(lookup LookupFunc) *Searcher {
	return &Searcher{lookup: lookup}
}

// Search runs a lookup for query. ok is false when the query was too
// short to send or the result was superseded by a newer query; callers
// should leave the current option list alone in that case.
func (s *Searcher) Search(ctx context.Context, query string) (options []model.Ref, ok bool) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLength {
		return nil, false
	}

	gen := s.gen.Add(1)
	refs, err := s.lookup(ctx, query)
	if s.gen.Load() != gen {
		observeStaleSearchDrop()
		return nil, false
	}
	if err != nil {
		slog.Warn("lookup failed", "query", query, "error", err)
		return []model.Ref{}, true
	}
	if refs == nil {
		refs = []model.Ref{}
	}
	return refs, true
}
