package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one logged-in browser session. The refresh token is sealed
// at rest and only decrypted on load.
type Session struct {
	ID           string
	Username     string
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// CreateSession persists a new session for the given backend token pair.
func CreateSession(ctx context.Context, db *sql.DB, sealer *Sealer, username, access, refresh string, ttl time.Duration) (*Session, error) {
	sealed, err := sealer.Seal(refresh)
	if err != nil {
		return nil, fmt.Errorf("sealing refresh token: %w", err)
	}

	s := &Session{
		ID:           uuid.NewString(),
		Username:     username,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    time.Now().Add(ttl),
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, username, access_token, refresh_token, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Username, s.AccessToken, sealed, s.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	// Opportunistically clean up expired sessions.
	_, _ = db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now())

	return s, nil
}

// GetSession loads a session by id. Returns nil if missing or expired.
func GetSession(ctx context.Context, db *sql.DB, sealer *Sealer, id string) (*Session, error) {
	s := &Session{}
	var sealed []byte
	err := db.QueryRowContext(ctx,
		`SELECT id, username, access_token, refresh_token, created_at, expires_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.Username, &s.AccessToken, &sealed, &s.CreatedAt, &s.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if time.Now().After(s.ExpiresAt) {
		_, _ = db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
		return nil, nil
	}

	s.RefreshToken, err = sealer.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("unsealing refresh token: %w", err)
	}
	return s, nil
}

// UpdateSessionTokens stores a rotated token pair.
func UpdateSessionTokens(ctx context.Context, db *sql.DB, sealer *Sealer, id, access, refresh string) error {
	sealed, err := sealer.Seal(refresh)
	if err != nil {
		return fmt.Errorf("sealing refresh token: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`UPDATE sessions SET access_token = ?, refresh_token = ? WHERE id = ?`,
		access, sealed, id,
	)
	if err != nil {
		return fmt.Errorf("updating session tokens: %w", err)
	}
	return nil
}

// DeleteSession removes a session (logout).
func DeleteSession(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
