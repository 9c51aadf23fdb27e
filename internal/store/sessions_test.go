package store

import (
	"context"
	"testing"
	"time"

	"github.com/erazemk/odprema/internal/db"
)

func TestSessionRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	sealer := NewSealer("test-secret")
	ctx := context.Background()

	created, err := CreateSession(ctx, database, sealer, "ana", "acc-1", "ref-1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if created.ID == "" {
		t.Fatal("empty session id")
	}

	got, err := GetSession(ctx, database, sealer, created.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got == nil {
		t.Fatal("session not found")
	}
	if got.Username != "ana" || got.AccessToken != "acc-1" || got.RefreshToken != "ref-1" {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestSessionRefreshTokenSealedAtRest(t *testing.T) {
	database := db.NewTestDB(t)
	sealer := NewSealer("test-secret")
	ctx := context.Background()

	created, _ := CreateSession(ctx, database, sealer, "ana", "acc", "ref-secret", time.Hour)

	var stored []byte
	err := database.QueryRowContext(ctx,
		`SELECT refresh_token FROM sessions WHERE id = ?`, created.ID,
	).Scan(&stored)
	if err != nil {
		t.Fatalf("reading raw row: %v", err)
	}
	if string(stored) == "ref-secret" {
		t.Error("refresh token stored in plaintext")
	}

	// A sealer with a different secret must not be able to open it.
	if _, err := GetSession(ctx, database, NewSealer("other-secret"), created.ID); err == nil {
		t.Error("expected unseal failure with wrong secret")
	}
}

func TestGetSessionMissing(t *testing.T) {
	database := db.NewTestDB(t)
	s, err := GetSession(context.Background(), database, NewSealer("x"), "nope")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil session, got %+v", s)
	}
}

func TestGetSessionExpired(t *testing.T) {
	database := db.NewTestDB(t)
	sealer := NewSealer("test-secret")
	ctx := context.Background()

	created, _ := CreateSession(ctx, database, sealer, "ana", "acc", "ref", -time.Minute)

	got, err := GetSession(ctx, database, sealer, created.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got != nil {
		t.Error("expired session should not load")
	}
}

func TestUpdateSessionTokens(t *testing.T) {
	database := db.NewTestDB(t)
	sealer := NewSealer("test-secret")
	ctx := context.Background()

	created, _ := CreateSession(ctx, database, sealer, "ana", "acc-1", "ref-1", time.Hour)

	if err := UpdateSessionTokens(ctx, database, sealer, created.ID, "acc-2", "ref-2"); err != nil {
		t.Fatalf("UpdateSessionTokens: %v", err)
	}

	got, _ := GetSession(ctx, database, sealer, created.ID)
	if got.AccessToken != "acc-2" || got.RefreshToken != "ref-2" {
		t.Errorf("tokens not rotated: %+v", got)
	}
}

func TestDeleteSession(t *testing.T) {
	database := db.NewTestDB(t)
	sealer := NewSealer("test-secret")
	ctx := context.Background()

	created, _ := CreateSession(ctx, database, sealer, "ana", "acc", "ref", time.Hour)

	if err := DeleteSession(ctx, database, created.ID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	got, _ := GetSession(ctx, database, sealer, created.ID)
	if got != nil {
		t.Error("session should be gone after delete")
	}
}
