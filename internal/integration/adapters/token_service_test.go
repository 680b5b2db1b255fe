package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// memoryTokenRepo is an in-memory persistence.TokenRepository for tests.
type memoryTokenRepo struct {
	tokens map[string]struct {
		userID      int64
		invalidated bool
		expiresAt   time.Time
	}
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]struct {
		userID      int64
		invalidated bool
		expiresAt   time.Time
	})}
}

func (m *memoryTokenRepo) SaveRefreshToken(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	m.tokens[token] = struct {
		userID      int64
		invalidated bool
		expiresAt   time.Time
	}{userID, false, expiresAt}
	return nil
}

func (m *memoryTokenRepo) IsRefreshTokenValid(ctx context.Context, token string) (bool, error) {
	record, ok := m.tokens[token]
	if !ok || record.invalidated || record.expiresAt.Before(time.Now().UTC()) {
		return false, nil
	}
	return true, nil
}

func (m *memoryTokenRepo) InvalidateRefreshToken(ctx context.Context, token string) error {
	if record, ok := m.tokens[token]; ok {
		record.invalidated = true
		m.tokens[token] = record
	}
	return nil
}

func (m *memoryTokenRepo) InvalidateAllUserRefreshTokens(ctx context.Context, userID int64) error {
	for token, record := range m.tokens {
		if record.userID == userID {
			record.invalidated = true
			m.tokens[token] = record
		}
	}
	return nil
}

func TestTokenService(t *testing.T) {
	ctx := context.Background()

	newService := func() (*memoryTokenRepo, *tokenService) {
		repo := newMemoryTokenRepo()
		svc := NewTokenService("test-secret", 15*time.Minute, 7*24*time.Hour, repo)
		return repo, svc.(*tokenService)
	}

	t.Run("access token round-trip", func(t *testing.T) {
		_, svc := newService()

		pair, err := svc.GenerateTokenPair(ctx, 42, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair.AccessToken == "" || pair.RefreshToken == "" {
			t.Fatal("expected both tokens")
		}

		claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != 42 || claims.Username != "alice" || claims.Email != "alice@example.com" {
			t.Errorf("unexpected claims: %+v", claims)
		}
		if !claims.ExpiresAt.After(time.Now()) {
			t.Error("expected future expiry")
		}
	})

	t.Run("refresh token round-trip", func(t *testing.T) {
		repo, svc := newService()

		pair, err := svc.GenerateTokenPair(ctx, 7, "bob", "bob@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := repo.tokens[pair.RefreshToken]; !ok {
			t.Error("expected refresh token persisted")
		}

		claims, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.UserID != 7 {
			t.Errorf("expected user 7, got %d", claims.UserID)
		}
	})

	t.Run("tokens are not interchangeable", func(t *testing.T) {
		_, svc := newService()

		pair, err := svc.GenerateTokenPair(ctx, 1, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := svc.ValidateAccessToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected refresh rejected as access, got %v", err)
		}
		if _, err := svc.ValidateRefreshToken(ctx, pair.AccessToken); !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Errorf("expected access rejected as refresh, got %v", err)
		}
	})

	t.Run("invalidated refresh token is rejected", func(t *testing.T) {
		_, svc := newService()

		pair, err := svc.GenerateTokenPair(ctx, 1, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := svc.InvalidateRefreshToken(ctx, pair.RefreshToken); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if _, err := svc.ValidateRefreshToken(ctx, pair.RefreshToken); !errors.Is(err, domainerror.ErrTokenInvalidated) {
			t.Errorf("expected invalidated error, got %v", err)
		}
	})

	t.Run("invalidating a user revokes every refresh token", func(t *testing.T) {
		_, svc := newService()

		first, err := svc.GenerateTokenPair(ctx, 1, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := svc.GenerateTokenPair(ctx, 1, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := svc.InvalidateAllUserTokens(ctx, 1); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, token := range []string{first.RefreshToken, second.RefreshToken} {
			if _, err := svc.ValidateRefreshToken(ctx, token); !errors.Is(err, domainerror.ErrTokenInvalidated) {
				t.Errorf("expected invalidated error, got %v", err)
			}
		}
	})

	t.Run("tokens signed with another secret are rejected", func(t *testing.T) {
		repo := newMemoryTokenRepo()
		issuer := NewTokenService("secret-one", 15*time.Minute, time.Hour, repo)
		verifier := NewTokenService("secret-two", 15*time.Minute, time.Hour, repo)

		pair, err := issuer.GenerateTokenPair(ctx, 1, "alice", "alice@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := verifier.ValidateAccessToken(ctx, pair.AccessToken); err == nil {
			t.Error("expected signature mismatch rejected")
		}
	})

	t.Run("garbage tokens are rejected", func(t *testing.T) {
		_, svc := newService()

		if _, err := svc.ValidateAccessToken(ctx, "not.a.jwt"); err == nil {
			t.Error("expected parse failure")
		}
	})
}
