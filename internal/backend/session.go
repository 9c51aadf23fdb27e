package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// refreshLeeway is how long before expiry a token is refreshed.
const refreshLeeway = 30 * time.Second

// RefreshFunc exchanges a refresh token for a new token pair. The web
// layer wraps the client's Refresh call here, plus whatever persistence
// it wants for the rotated tokens.
type RefreshFunc func(ctx context.Context, refreshToken string) (access, refresh string, err error)

// Session is a TokenSource holding one user's backend token pair. When
// the access token nears expiry, concurrent callers are funneled through
// a single in-flight refresh: the first one starts it, the rest wait on
// the shared result.
type Session struct {
	mu           sync.Mutex
	access       string
	expires      time.Time
	refreshToken string
	refresh      RefreshFunc
	inflight     *refreshCall
}

type refreshCall struct {
	done   chan struct{}
	access string
	err    error
}

// NewSession creates a session from an existing token pair.
func NewSession(access, refreshToken string, refresh RefreshFunc) *Session {
	return &Session{
		access:       access,
		expires:      tokenExpiry(access),
		refreshToken: refreshToken,
		refresh:      refresh,
	}
}

// Token returns a valid access token, refreshing if needed.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.valid(time.Now()) {
		token := s.access
		s.mu.Unlock()
		return token, nil
	}

	if s.inflight == nil {
		call := &refreshCall{done: make(chan struct{})}
		s.inflight = call
		go s.runRefresh(call)
	}
	call := s.inflight
	s.mu.Unlock()

	select {
	case <-call.done:
		return call.access, call.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Tokens returns the current pair, for persistence.
func (s *Session) Tokens() (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.refreshToken
}

// valid reports whether the access token is still usable. Tokens without
// a readable expiry are assumed valid until the backend rejects them.
func (s *Session) valid(now time.Time) bool {
	if s.access == "" {
		return false
	}
	return s.expires.IsZero() || now.Before(s.expires.Add(-refreshLeeway))
}

func (s *Session) runRefresh(call *refreshCall) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()

	access, refresh, err := s.refresh(ctx, refreshToken)

	s.mu.Lock()
	if err == nil {
		s.access = access
		s.expires = tokenExpiry(access)
		s.refreshToken = refresh
		call.access = access
	} else {
		call.err = fmt.Errorf("refreshing session: %w", err)
	}
	s.inflight = nil
	s.mu.Unlock()

	close(call.done)
}

// tokenExpiry extracts the exp claim without verifying the signature;
// this side only schedules the refresh. Returns the zero time if the
// token has no readable expiry.
func tokenExpiry(token string) time.Time {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}
	}
	if claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}
