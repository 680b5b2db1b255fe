package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
)

// GetTodaySummaryInput represents the input for the quick summary.
type GetTodaySummaryInput struct {
	UserID int64
}

// PeriodTotals represents summed expenses over one summary window.
type PeriodTotals struct {
	Amount decimal.Decimal
	Count  int64
}

// GetTodaySummaryOutput represents spending for today, this month and this year.
type GetTodaySummaryOutput struct {
	Today     PeriodTotals
	ThisMonth PeriodTotals
	ThisYear  PeriodTotals
}

// GetTodaySummaryUseCase computes the three rolling summary windows.
type GetTodaySummaryUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetTodaySummaryUseCase creates a new GetTodaySummaryUseCase instance.
func NewGetTodaySummaryUseCase(expenseRepo adapter.ExpenseRepository) *GetTodaySummaryUseCase {
	return &GetTodaySummaryUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute computes totals for today, the current month and the current year (UTC).
func (uc *GetTodaySummaryUseCase) Execute(ctx context.Context, input GetTodaySummaryInput) (*GetTodaySummaryOutput, error) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)

	output := &GetTodaySummaryOutput{}

	windows := []struct {
		start time.Time
		dst   *PeriodTotals
	}{
		{today, &output.Today},
		{monthStart, &output.ThisMonth},
		{yearStart, &output.ThisYear},
	}

	for _, w := range windows {
		start := w.start
		totals, err := uc.expenseRepo.GetTotals(ctx, input.UserID, adapter.ExpenseFilter{
			StartDate: &start,
			EndDate:   &today,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute totals: %w", err)
		}
		w.dst.Amount = totals.Amount
		w.dst.Count = totals.Count
	}

	return output, nil
}
