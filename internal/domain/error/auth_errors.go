// Package error defines domain-specific errors for the Expense Tracker application.
package error

import "errors"

// Auth domain errors.
var (
	// ErrInvalidCredentials is returned when login credentials do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailExists is returned when registering with an email already in use.
	ErrEmailExists = errors.New("email already exists")

	// ErrUsernameExists is returned when registering with a username already in use.
	ErrUsernameExists = errors.New("username already exists")

	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidToken is returned when a token is malformed or has a bad signature.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a token is past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalidated is returned when a refresh token has been revoked.
	ErrTokenInvalidated = errors.New("token invalidated")

	// ErrWeakPassword is returned when a password fails the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength requirements")

	// ErrTooManyAttempts is returned when login attempts exceed the rate limit.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidEmail    AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidUsername AuthErrorCode = "AUTH-010002"
	ErrCodeWeakPassword    AuthErrorCode = "AUTH-010003"
	ErrCodeMissingFields   AuthErrorCode = "AUTH-010004"

	// Authentication errors (02XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeInvalidToken       AuthErrorCode = "AUTH-020002"
	ErrCodeTokenExpired       AuthErrorCode = "AUTH-020003"
	ErrCodeTokenInvalidated   AuthErrorCode = "AUTH-020004"
	ErrCodeUserNotFound       AuthErrorCode = "AUTH-020005"
	ErrCodeMissingToken       AuthErrorCode = "AUTH-020006"

	// Conflict errors (03XXXX)
	ErrCodeEmailExists    AuthErrorCode = "AUTH-030001"
	ErrCodeUsernameExists AuthErrorCode = "AUTH-030002"

	// Rate limiting errors (04XXXX)
	ErrCodeTooManyAttempts AuthErrorCode = "AUTH-040001"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
