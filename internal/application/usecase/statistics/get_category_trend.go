package statistics

import (
	"context"
	"errors"
	"fmt"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// DefaultTrendLimit is the number of buckets returned when none is requested.
	DefaultTrendLimit = 12
	// MaxTrendLimit caps the number of buckets a single request may ask for.
	MaxTrendLimit = 100
)

// GetCategoryTrendInput represents the input for a single-category trend.
type GetCategoryTrendInput struct {
	UserID     int64
	CategoryID int64
	Period     Period
	Limit      int
}

// GetCategoryTrendOutput represents the output of a single-category trend.
type GetCategoryTrendOutput struct {
	CategoryID    int64
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
	Series        BucketSeries
}

// GetCategoryTrendUseCase computes a bucketed spending series for one category.
type GetCategoryTrendUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
}

// NewGetCategoryTrendUseCase creates a new GetCategoryTrendUseCase instance.
func NewGetCategoryTrendUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
) *GetCategoryTrendUseCase {
	return &GetCategoryTrendUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the category trend aggregation.
// A category with no expenses yields an empty series, not an error.
func (uc *GetCategoryTrendUseCase) Execute(ctx context.Context, input GetCategoryTrendInput) (*GetCategoryTrendOutput, error) {
	if _, ok := bucketCaps[input.Period]; !ok {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidPeriod,
			"period must be: daily, weekly, monthly or yearly",
			domainerror.ErrInvalidPeriod,
		)
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultTrendLimit
	}
	if limit < 1 || limit > MaxTrendLimit {
		return nil, domainerror.NewStatisticsError(
			domainerror.ErrCodeInvalidLimit,
			fmt.Sprintf("limit must be between 1 and %d", MaxTrendLimit),
			domainerror.ErrInvalidLimit,
		)
	}

	// The category must exist and belong to the user
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, domainerror.NewCategoryError(
				domainerror.ErrCodeCategoryNotFound,
				"category not found",
				domainerror.ErrCategoryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	filter := adapter.ExpenseFilter{CategoryID: &category.ID}
	expenses, err := uc.expenseRepo.FindForAggregation(ctx, input.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	return &GetCategoryTrendOutput{
		CategoryID:    category.ID,
		CategoryName:  category.Name,
		CategoryIcon:  category.Icon,
		CategoryColor: category.Color,
		Series: BucketSeries{
			Period:  input.Period,
			Buckets: bucketize(expenses, input.Period, limit),
		},
	}, nil
}
