package error

import "errors"

// Expense domain errors.
var (
	// ErrExpenseNotFound is returned when an expense is not found for the user.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidAmount is returned when the amount is not positive or exceeds the ceiling.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidDescription is returned when the description is empty or too long.
	ErrInvalidDescription = errors.New("invalid description")

	// ErrInvalidDate is returned when the expense date cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDateRange is returned when a filter start date is after its end date.
	ErrInvalidDateRange = errors.New("start date is after end date")

	// ErrInvalidAmountRange is returned when a filter min amount exceeds its max amount.
	ErrInvalidAmountRange = errors.New("min amount is greater than max amount")
)

// ExpenseErrorCode defines error codes for expense errors.
// Format: EXP-XXYYYY where XX is category and YYYY is specific error.
type ExpenseErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAmount        ExpenseErrorCode = "EXP-010001"
	ErrCodeInvalidDescription   ExpenseErrorCode = "EXP-010002"
	ErrCodeInvalidDate          ExpenseErrorCode = "EXP-010003"
	ErrCodeInvalidDateRange     ExpenseErrorCode = "EXP-010004"
	ErrCodeInvalidAmountRange   ExpenseErrorCode = "EXP-010005"
	ErrCodeMissingExpenseFields ExpenseErrorCode = "EXP-010006"

	// Lookup errors (02XXXX)
	ErrCodeExpenseNotFound ExpenseErrorCode = "EXP-020001"
)

// ExpenseError represents an expense error with code and message.
type ExpenseError struct {
	Code    ExpenseErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ExpenseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ExpenseError) Unwrap() error {
	return e.Err
}

// NewExpenseError creates a new ExpenseError with the given code and message.
func NewExpenseError(code ExpenseErrorCode, message string, err error) *ExpenseError {
	return &ExpenseError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
