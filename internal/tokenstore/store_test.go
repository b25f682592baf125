package tokenstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "tokens.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGetMissingAccount(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "nobody"); !errors.Is(err, ErrNoToken) {
		t.Errorf("Get() error = %v, want ErrNoToken", err)
	}
}

func TestUpsertAndGet(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	refresh := "refresh-1"
	in := Token{
		AccessToken:  "access-1",
		RefreshToken: &refresh,
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(8 * time.Hour).UTC().Truncate(time.Second),
		UserID:       "ABC123",
	}
	if err := s.Upsert(ctx, "default", in); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := s.Get(ctx, "default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != in.AccessToken || got.TokenType != in.TokenType || got.UserID != in.UserID {
		t.Errorf("Get() = %+v, want %+v", got, in)
	}
	if got.RefreshToken == nil || *got.RefreshToken != refresh {
		t.Errorf("RefreshToken = %v, want %q", got.RefreshToken, refresh)
	}
	if !got.Expiry.Equal(in.Expiry) {
		t.Errorf("Expiry = %v, want %v", got.Expiry, in.Expiry)
	}
}

func TestUpsertPreservesUserID(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "default", Token{
		AccessToken: "access-1",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
		UserID:      "ABC123",
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// A refresh response does not repeat the user id; the stored one must
	// survive the update.
	if err := s.Upsert(ctx, "default", Token{
		AccessToken: "access-2",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := s.Get(ctx, "default")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "access-2" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "access-2")
	}
	if got.UserID != "ABC123" {
		t.Errorf("UserID = %q, want %q", got.UserID, "ABC123")
	}
}

func TestAccountsAreIsolated(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	ctx := context.Background()

	for _, account := range []string{"alice", "bob"} {
		if err := s.Upsert(ctx, account, Token{
			AccessToken: "token-" + account,
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
			UserID:      "user-" + account,
		}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", account, err)
		}
	}

	got, err := s.Get(ctx, "alice")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "token-alice" {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, "token-alice")
	}
}
