package persistence

import (
	"context"
	"testing"
	"time"
)

func TestTokenRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	repo := NewTokenRepository(db)

	future := time.Now().UTC().Add(time.Hour)

	t.Run("saved token is valid", func(t *testing.T) {
		if err := repo.SaveRefreshToken(ctx, "token-a", user.ID, future); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid, err := repo.IsRefreshTokenValid(ctx, "token-a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !valid {
			t.Error("expected token valid")
		}
	})

	t.Run("unknown token is invalid without error", func(t *testing.T) {
		valid, err := repo.IsRefreshTokenValid(ctx, "never-issued")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if valid {
			t.Error("expected unknown token invalid")
		}
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Minute)
		if err := repo.SaveRefreshToken(ctx, "token-expired", user.ID, past); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid, err := repo.IsRefreshTokenValid(ctx, "token-expired")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if valid {
			t.Error("expected expired token invalid")
		}
	})

	t.Run("invalidation revokes a single token", func(t *testing.T) {
		if err := repo.SaveRefreshToken(ctx, "token-b", user.ID, future); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.InvalidateRefreshToken(ctx, "token-b"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		valid, err := repo.IsRefreshTokenValid(ctx, "token-b")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if valid {
			t.Error("expected invalidated token rejected")
		}
	})

	t.Run("invalidating a user revokes every token", func(t *testing.T) {
		other := seedUser(t, db, "bob")
		if err := repo.SaveRefreshToken(ctx, "token-c", user.ID, future); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.SaveRefreshToken(ctx, "token-d", user.ID, future); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := repo.SaveRefreshToken(ctx, "token-e", other.ID, future); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := repo.InvalidateAllUserRefreshTokens(ctx, user.ID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, token := range []string{"token-c", "token-d"} {
			valid, err := repo.IsRefreshTokenValid(ctx, token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if valid {
				t.Errorf("expected %s revoked", token)
			}
		}
		valid, err := repo.IsRefreshTokenValid(ctx, "token-e")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !valid {
			t.Error("expected other user's token untouched")
		}
	})
}
