package expense

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// CreateExpenseInput represents the input for expense creation.
type CreateExpenseInput struct {
	UserID      int64
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time
}

// CreateExpenseOutput represents the output of expense creation.
type CreateExpenseOutput struct {
	Expense *ExpenseOutput
}

// CreateExpenseUseCase handles expense creation logic.
type CreateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
}

// NewCreateExpenseUseCase creates a new CreateExpenseUseCase instance.
func NewCreateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs the expense creation.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, input CreateExpenseInput) (*CreateExpenseOutput, error) {
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateDescription(input.Description); err != nil {
		return nil, err
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

	expense := entity.NewExpense(input.UserID, category.ID, input.Amount, input.Description, input.Date)

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	return &CreateExpenseOutput{
		Expense: toExpenseOutput(&entity.ExpenseWithCategory{
			Expense:  expense,
			Category: category,
		}),
	}, nil
}

// validateAmount checks that an amount is positive and below the ceiling.
func validateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmount,
			"amount must be greater than zero",
			domainerror.ErrInvalidAmount,
		)
	}
	if amount.GreaterThan(entity.MaxExpenseAmount) {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidAmount,
			fmt.Sprintf("amount must not exceed %s", entity.MaxExpenseAmount.String()),
			domainerror.ErrInvalidAmount,
		)
	}
	return nil
}

// validateDescription checks that a description is present and within bounds.
func validateDescription(description string) error {
	if description == "" {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidDescription,
			"description is required",
			domainerror.ErrInvalidDescription,
		)
	}
	if utf8.RuneCountInString(description) > entity.ExpenseDescriptionMaxLength {
		return domainerror.NewExpenseError(
			domainerror.ErrCodeInvalidDescription,
			fmt.Sprintf("description must not exceed %d characters", entity.ExpenseDescriptionMaxLength),
			domainerror.ErrInvalidDescription,
		)
	}
	return nil
}
