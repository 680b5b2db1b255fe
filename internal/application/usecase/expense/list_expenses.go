// Package expense contains expense-related use cases.
package expense

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// ListExpensesInput represents the input for listing expenses.
type ListExpensesInput struct {
	UserID      int64
	StartDate   *time.Time
	EndDate     *time.Time
	CategoryID  *int64
	MinAmount   *decimal.Decimal
	MaxAmount   *decimal.Decimal
	Description string
	Page        int
	Limit       int
}

// ExpenseOutput represents a single expense in the output.
type ExpenseOutput struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
	Category    *CategoryOutput
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryOutput represents category information in expense output.
type CategoryOutput struct {
	ID    int64
	Name  string
	Icon  string
	Color string
}

// PaginationOutput represents pagination information in the output.
type PaginationOutput struct {
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

// ListExpensesOutput represents the output of listing expenses.
type ListExpensesOutput struct {
	Expenses   []*ExpenseOutput
	Pagination PaginationOutput
}

// ListExpensesUseCase handles listing expenses logic.
type ListExpensesUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	defaultLimit int
	maxLimit     int
}

// NewListExpensesUseCase creates a new ListExpensesUseCase instance.
func NewListExpensesUseCase(expenseRepo adapter.ExpenseRepository, defaultLimit, maxLimit int) *ListExpensesUseCase {
	return &ListExpensesUseCase{
		expenseRepo:  expenseRepo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Execute performs the expense listing.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, input ListExpensesInput) (*ListExpensesOutput, error) {
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

	// Set default pagination values
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 {
		limit = uc.defaultLimit
	}
	if limit > uc.maxLimit {
		limit = uc.maxLimit
	}

	pagination := adapter.ExpensePagination{
		Page:  page,
		Limit: limit,
	}

	result, err := uc.expenseRepo.FindByFilter(ctx, input.UserID, filter, pagination)
	if err != nil {
		return nil, err
	}

	output := &ListExpensesOutput{
		Expenses: make([]*ExpenseOutput, len(result.Expenses)),
		Pagination: PaginationOutput{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}

	for i, exp := range result.Expenses {
		output.Expenses[i] = toExpenseOutput(exp)
	}

	return output, nil
}

// toExpenseOutput converts an expense-with-category row to output form.
func toExpenseOutput(exp *entity.ExpenseWithCategory) *ExpenseOutput {
	out := &ExpenseOutput{
		ID:          exp.Expense.ID,
		UserID:      exp.Expense.UserID,
		CategoryID:  exp.Expense.CategoryID,
		Amount:      exp.Expense.Amount,
		Description: exp.Expense.Description,
		Date:        exp.Expense.Date,
		CreatedAt:   exp.Expense.CreatedAt,
		UpdatedAt:   exp.Expense.UpdatedAt,
	}
	if exp.Category != nil {
		out.Category = &CategoryOutput{
			ID:    exp.Category.ID,
			Name:  exp.Category.Name,
			Icon:  exp.Category.Icon,
			Color: exp.Category.Color,
		}
	}
	return out
}

// validateFilterRanges rejects inverted date and amount bounds.
func validateFilterRanges(filter adapter.ExpenseFilter) error {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidDateRange,
			"start date must not be after end date",
			domainerror.ErrInvalidDateRange,
		)
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmountRange,
			"min amount must not exceed max amount",
			domainerror.ErrInvalidAmountRange,
		)
	}
	return nil
}
