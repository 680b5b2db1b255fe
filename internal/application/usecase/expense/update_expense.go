package expense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

// UpdateExpenseInput represents the input for expense update.
// Nil pointers leave the corresponding field unchanged.
type UpdateExpenseInput struct {
	ExpenseID   int64
	UserID      int64
	CategoryID  *int64
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// UpdateExpenseOutput represents the output of expense update.
type UpdateExpenseOutput struct {
	Expense *ExpenseOutput
}

// UpdateExpenseUseCase handles expense update logic.
type UpdateExpenseUseCase struct {
	expenseRepo  adapter.ExpenseRepository
	categoryRepo adapter.CategoryRepository
}

// NewUpdateExpenseUseCase creates a new UpdateExpenseUseCase instance.
func NewUpdateExpenseUseCase(
	expenseRepo adapter.ExpenseRepository,
	categoryRepo adapter.CategoryRepository,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
	}
}

// Execute performs a partial expense update.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, input UpdateExpenseInput) (*UpdateExpenseOutput, error) {
	expense, err := uc.expenseRepo.FindByID(ctx, input.ExpenseID, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrExpenseNotFound) {
			return nil, domainerror.NewExpenseError(
				domainerror.ErrCodeExpenseNotFound,
				"expense not found",
				domainerror.ErrExpenseNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		expense.Amount = *input.Amount
	}

	if input.Description != nil {
		if err := validateDescription(*input.Description); err != nil {
			return nil, err
		}
		expense.Description = *input.Description
	}

	if input.Date != nil {
		expense.Date = *input.Date
	}

	var category *entity.Category
	if input.CategoryID != nil {
		category, err = uc.categoryRepo.FindByID(ctx, *input.CategoryID, input.UserID)
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
		expense.CategoryID = category.ID
	} else {
		category, err = uc.categoryRepo.FindByID(ctx, expense.CategoryID, input.UserID)
		if err != nil && !errors.Is(err, domainerror.ErrCategoryNotFound) {
			return nil, fmt.Errorf("failed to find category: %w", err)
		}
	}

	expense.UpdatedAt = time.Now().UTC()

	if err := uc.expenseRepo.Update(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	return &UpdateExpenseOutput{
		Expense: toExpenseOutput(&entity.ExpenseWithCategory{
			Expense:  expense,
			Category: category,
		}),
	}, nil
}
