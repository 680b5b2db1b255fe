// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// ContextKey is the type used for context keys set by middleware.
type ContextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey ContextKey = "user_id"
	// UserUsernameKey is the context key for the authenticated user's username.
	UserUsernameKey ContextKey = "user_username"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
)

// AuthMiddleware validates the Bearer access token and stores the user
// claims on the request context.
func AuthMiddleware(tokenService adapter.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header is required",
				"code":  string(domainerror.ErrCodeMissingToken),
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header must be in format: Bearer <token>",
				"code":  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		claims, err := tokenService.ValidateAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
				"code":  string(domainerror.ErrCodeInvalidToken),
			})
			c.Abort()
			return
		}

		c.Set(string(UserIDKey), claims.UserID)
		c.Set(string(UserUsernameKey), claims.Username)
		c.Set(string(UserEmailKey), claims.Email)

		c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user's ID from the context.
func GetUserIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(string(UserIDKey))
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

// GetUsernameFromContext extracts the authenticated user's username from the context.
func GetUsernameFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(string(UserUsernameKey))
	if !exists {
		return "", false
	}
	username, ok := value.(string)
	return username, ok
}
