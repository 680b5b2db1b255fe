package error

import "errors"

// Statistics domain errors.
var (
	// ErrInvalidPeriod is returned when the requested period is not a known granularity.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidLimit is returned when a bucket limit is out of range.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidMonthCount is returned when a monthly comparison span is out of range.
	ErrInvalidMonthCount = errors.New("invalid month count")
)

// StatisticsErrorCode defines error codes for statistics errors.
// Format: STA-XXYYYY where XX is category and YYYY is specific error.
type StatisticsErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidPeriod     StatisticsErrorCode = "STA-010001"
	ErrCodeInvalidLimit      StatisticsErrorCode = "STA-010002"
	ErrCodeInvalidMonthCount StatisticsErrorCode = "STA-010003"
	ErrCodeInvalidStatsRange StatisticsErrorCode = "STA-010004"
)

// StatisticsError represents a statistics error with code and message.
type StatisticsError struct {
	Code    StatisticsErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *StatisticsError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *StatisticsError) Unwrap() error {
	return e.Err
}

// NewStatisticsError creates a new StatisticsError with the given code and message.
func NewStatisticsError(code StatisticsErrorCode, message string, err error) *StatisticsError {
	return &StatisticsError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
