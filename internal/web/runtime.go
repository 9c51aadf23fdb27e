package web

import (
	"context"
	"log/slog"

	"github.com/erazemk/odprema/internal/backend"
	"github.com/erazemk/odprema/internal/model"
	"github.com/erazemk/odprema/internal/store"
)

// sessionRuntime is the per-session backend machinery: an authenticated
// client around a refreshing token source, and one searcher per lookup
// target so supersession is tracked per input field.
type sessionRuntime struct {
	client    *backend.Client
	searchers map[string]*backend.Searcher
}

// runtime returns (building lazily) the runtime for a session. Rotated
// tokens are written back to the session store so a refresh survives a
// server restart.
func (s *Server) runtime(sess *store.Session) *sessionRuntime {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runtimes == nil {
		s.runtimes = make(map[string]*sessionRuntime)
	}
	if rt, ok := s.runtimes[sess.ID]; ok {
		return rt
	}

	sessionID := sess.ID
	bs := backend.NewSession(sess.AccessToken, sess.RefreshToken,
		func(ctx context.Context, refreshToken string) (string, string, error) {
			res, err := s.Backend.Refresh(ctx, refreshToken)
			if err != nil {
				return "", "", err
			}
			if err := store.UpdateSessionTokens(ctx, s.DB, s.Sealer, sessionID,
				res.AccessToken, res.RefreshToken); err != nil {
				slog.Error("failed to persist rotated tokens", "error", err)
			}
			return res.AccessToken, res.RefreshToken, nil
		})

	client := s.Backend.WithTokenSource(bs)
	rt := &sessionRuntime{
		client: client,
		searchers: map[string]*backend.Searcher{
			"store-locations": backend.NewSearcher(func(ctx context.Context, query string) ([]model.Ref, error) {
				return client.SearchLocations(ctx, "store", query)
			}),
			"site-locations": backend.NewSearcher(func(ctx context.Context, query string) ([]model.Ref, error) {
				return client.SearchLocations(ctx, "site", query)
			}),
			"users": backend.NewSearcher(func(ctx context.Context, query string) ([]model.Ref, error) {
				return client.SearchUsers(ctx, query)
			}),
		},
	}
	s.runtimes[sess.ID] = rt
	return rt
}

// dropRuntime forgets a session's runtime (logout).
func (s *Server) dropRuntime(sessionID string) {
	s.mu.Lock()
	delete(s.runtimes, sessionID)
	s.mu.Unlock()
}
