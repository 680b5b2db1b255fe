package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// stubTokenService accepts a single known access token.
type stubTokenService struct {
	validToken string
	claims     *adapter.TokenClaims
}

func (s *stubTokenService) GenerateTokenPair(ctx context.Context, userID int64, username, email string) (*adapter.TokenPair, error) {
	return nil, nil
}

func (s *stubTokenService) ValidateAccessToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	if token != s.validToken {
		return nil, domainerror.ErrInvalidToken
	}
	return s.claims, nil
}

func (s *stubTokenService) ValidateRefreshToken(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	return nil, domainerror.ErrInvalidToken
}

func (s *stubTokenService) InvalidateRefreshToken(ctx context.Context, token string) error {
	return nil
}

func (s *stubTokenService) InvalidateAllUserTokens(ctx context.Context, userID int64) error {
	return nil
}

func newStubTokenService() *stubTokenService {
	return &stubTokenService{
		validToken: "valid-token",
		claims: &adapter.TokenClaims{
			UserID:    42,
			Username:  "alice",
			Email:     "alice@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

func authContext(t *testing.T, header string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}
	return c, recorder
}

func TestAuthMiddleware(t *testing.T) {
	handler := AuthMiddleware(newStubTokenService())

	t.Run("valid token populates the context", func(t *testing.T) {
		c, recorder := authContext(t, "Bearer valid-token")
		handler(c)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected request through, got %d", recorder.Code)
		}
		userID, ok := GetUserIDFromContext(c)
		if !ok || userID != 42 {
			t.Errorf("expected user 42 in context, got %d %v", userID, ok)
		}
		username, ok := GetUsernameFromContext(c)
		if !ok || username != "alice" {
			t.Errorf("expected username in context, got %s %v", username, ok)
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		c, recorder := authContext(t, "")
		handler(c)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
		if !c.IsAborted() {
			t.Error("expected chain aborted")
		}
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		for _, header := range []string{"valid-token", "Basic valid-token", "Bearer"} {
			c, recorder := authContext(t, header)
			handler(c)
			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 for %q, got %d", header, recorder.Code)
			}
		}
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		c, recorder := authContext(t, "Bearer forged-token")
		handler(c)

		if recorder.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", recorder.Code)
		}
	})

	t.Run("bearer scheme is case-insensitive", func(t *testing.T) {
		c, recorder := authContext(t, "bearer valid-token")
		handler(c)

		if recorder.Code != http.StatusOK {
			t.Errorf("expected request through, got %d", recorder.Code)
		}
	})
}
