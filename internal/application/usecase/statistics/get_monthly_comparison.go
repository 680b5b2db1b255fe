package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// DefaultComparisonMonths is the span used when none is requested.
	DefaultComparisonMonths = 6
	// MaxComparisonMonths caps the comparison span.
	MaxComparisonMonths = 24
)

// GetMonthlyComparisonInput represents the input for the month-over-month view.
type GetMonthlyComparisonInput struct {
	UserID int64
	Months int
}

// MonthlyTotal represents aggregated expenses for one calendar month.
type MonthlyTotal struct {
	Month  string // Format: 2006-01
	Amount decimal.Decimal
	Count  int64
}

// GetMonthlyComparisonOutput represents the output of the month-over-month view.
type GetMonthlyComparisonOutput struct {
	Months []MonthlyTotal
}

// GetMonthlyComparisonUseCase aggregates the last N months of spending.
type GetMonthlyComparisonUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetMonthlyComparisonUseCase creates a new GetMonthlyComparisonUseCase instance.
func NewGetMonthlyComparisonUseCase(expenseRepo adapter.ExpenseRepository) *GetMonthlyComparisonUseCase {
	return &GetMonthlyComparisonUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute performs the monthly comparison aggregation, most recent month first.
// Months without expenses are omitted.
func (uc *GetMonthlyComparisonUseCase) Execute(ctx context.Context, input GetMonthlyComparisonInput) (*GetMonthlyComparisonOutput, error) {
	months := input.Months
	if months == 0 {
		months = DefaultComparisonMonths
	}
	if months < 1 || months > MaxComparisonMonths {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidMonthCount,
			fmt.Sprintf("months must be between 1 and %d", MaxComparisonMonths),
			domainerror.ErrInvalidMonthCount,
		)
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	filter := adapter.ExpenseFilter{StartDate: &start}
	expenses, err := uc.expenseRepo.FindForAggregation(ctx, input.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	buckets := bucketize(expenses, PeriodMonthly, months)

	out := make([]MonthlyTotal, len(buckets))
	for i, b := range buckets {
		out[i] = MonthlyTotal{
			Month:  b.Label,
			Amount: b.Amount,
			Count:  b.Count,
		}
	}

	return &GetMonthlyComparisonOutput{Months: out}, nil
}
