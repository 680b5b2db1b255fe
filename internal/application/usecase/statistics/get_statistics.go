package statistics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// UncategorizedName labels breakdown rows whose category no longer resolves.
const UncategorizedName = "Uncategorized"

// UncategorizedColor is the neutral fallback color for unresolved categories.
const UncategorizedColor = "#6B7280"

// GetStatisticsInput represents the input for the statistics summary.
type GetStatisticsInput struct {
	UserID      int64
	StartDate   *time.Time
	EndDate     *time.Time
	CategoryID  *int64
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Description string
	Period      Period
}

// CategoryBreakdownItem represents one category's share of the filtered total.
type CategoryBreakdownItem struct {
	CategoryID    int64
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
	Amount        decimal.Decimal
	Count         int64
	Percentage    float64
}

// GetStatisticsOutput represents the output of the statistics summary.
type GetStatisticsOutput struct {
	TotalAmount decimal.Decimal
	TotalCount  int64
	Breakdown   []CategoryBreakdownItem
	Series      BucketSeries
}

// GetStatisticsUseCase computes totals, category breakdown and one bucket
// series over the filtered expense set.
type GetStatisticsUseCase struct {
	expenseRepo adapter.ExpenseRepository
}

// NewGetStatisticsUseCase creates a new GetStatisticsUseCase instance.
func NewGetStatisticsUseCase(expenseRepo adapter.ExpenseRepository) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{
		expenseRepo: expenseRepo,
	}
}

// Execute performs the statistics aggregation.
func (uc *GetStatisticsUseCase) Execute(ctx context.Context, input GetStatisticsInput) (*GetStatisticsOutput, error) {
	if _, ok := bucketCaps[input.Period]; !ok {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidPeriod,
			"period must be: daily, weekly, monthly or yearly",
			domainerror.ErrInvalidPeriod,
		)
	}

	filter := adapter.ExpenseFilter{
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CategoryID:  input.CategoryID,
		MinAmount:   input.MinAmount,
		MaxAmount:   input.MaxAmount,
		Description: input.Description,
	}
	if err := validateFilterRanges(filter); err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.FindForAggregation(ctx, input.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Expense.Amount)
	}

	return &GetStatisticsOutput{
		TotalAmount: total,
		TotalCount:  int64(len(expenses)),
		Breakdown:   buildBreakdown(expenses, total),
		Series: BucketSeries{
			Period:  input.Period,
			Buckets: bucketize(expenses, input.Period, BucketCap(input.Period)),
		},
	}, nil
}

// buildBreakdown groups expenses by category, sorted by amount descending.
// Percentages are zero when the overall total is zero.
func buildBreakdown(expenses []*entity.ExpenseWithCategory, total decimal.Decimal) []CategoryBreakdownItem {
	agg := make(map[int64]*CategoryBreakdownItem)
	for _, exp := range expenses {
		item, ok := agg[exp.Expense.CategoryID]
		if !ok {
			item = &CategoryBreakdownItem{
				CategoryID:    exp.Expense.CategoryID,
				CategoryName:  UncategorizedName,
				CategoryColor: UncategorizedColor,
			}
			if exp.Category != nil {
				item.CategoryName = exp.Category.Name
				item.CategoryIcon = exp.Category.Icon
				item.CategoryColor = exp.Category.Color
			}
			agg[exp.Expense.CategoryID] = item
		}
		item.Amount = item.Amount.Add(exp.Expense.Amount)
		item.Count++
	}

	breakdown := make([]CategoryBreakdownItem, 0, len(agg))
	for _, item := range agg {
		if total.IsPositive() {
			pct, _ := item.Amount.Mul(decimal.NewFromInt(100)).Div(total).Round(2).Float64()
			item.Percentage = pct
		}
		breakdown = append(breakdown, *item)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		return breakdown[i].Amount.GreaterThan(breakdown[j].Amount)
	})
	return breakdown
}

// validateFilterRanges rejects inverted date and amount bounds.
func validateFilterRanges(filter adapter.ExpenseFilter) error {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidStatsRange,
			"start date must not be after end date",
			nil,
		)
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidStatsRange,
			"min amount must not exceed max amount",
			nil,
		)
	}
	return nil
}
