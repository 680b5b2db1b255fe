package error

import "errors"

// Category domain errors.
var (
	// ErrCategoryNotFound is returned when a category is not found for the user.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryNameExists is returned when the user already owns a category with that name.
	ErrCategoryNameExists = errors.New("category name already exists")

	// ErrCategoryNameTooLong is returned when the category name exceeds the maximum length.
	ErrCategoryNameTooLong = errors.New("category name too long")

	// ErrInvalidColorFormat is returned when the category color is not #RRGGBB.
	ErrInvalidColorFormat = errors.New("invalid color format")

	// ErrCategoryInUse is returned when deleting a category still referenced by expenses.
	ErrCategoryInUse = errors.New("category is referenced by expenses")
)

// CategoryErrorCode defines error codes for category errors.
// Format: CAT-XXYYYY where XX is category and YYYY is specific error.
type CategoryErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeCategoryNameTooLong   CategoryErrorCode = "CAT-010001"
	ErrCodeInvalidColorFormat    CategoryErrorCode = "CAT-010002"
	ErrCodeMissingCategoryFields CategoryErrorCode = "CAT-010003"

	// Lookup errors (02XXXX)
	ErrCodeCategoryNotFound CategoryErrorCode = "CAT-020001"

	// Conflict errors (03XXXX)
	ErrCodeCategoryNameExists CategoryErrorCode = "CAT-030001"
	ErrCodeCategoryInUse      CategoryErrorCode = "CAT-030002"
)

// CategoryError represents a category error with code and message.
type CategoryError struct {
	Code    CategoryErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *CategoryError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// NewCategoryError creates a new CategoryError with the given code and message.
func NewCategoryError(code CategoryErrorCode, message string, err error) *CategoryError {
	return &CategoryError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
