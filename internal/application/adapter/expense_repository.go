// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// ExpenseFilter defines filter options for querying expenses.
// Pointer fields distinguish absent from zero-valued bounds.
type ExpenseFilter struct {
	StartDate   *time.Time       // Inclusive, against the expense date
	EndDate     *time.Time       // Inclusive
	CategoryID  *int64           // Exact match
	MinAmount   *decimal.Decimal // Inclusive; zero is a legitimate bound
	MaxAmount   *decimal.Decimal // Inclusive
	Description string           // Substring match, ignored when empty
}

// ExpensePagination defines pagination options.
type ExpensePagination struct {
	Page  int
	Limit int
}

// ExpenseRepository defines the interface for expense persistence operations.
type ExpenseRepository interface {
	// Create creates a new expense in the database.
	Create(ctx context.Context, expense *entity.Expense) error

	// FindByID retrieves an expense by its ID, scoped to the owning user.
	FindByID(ctx context.Context, id, userID int64) (*entity.Expense, error)

	// FindByIDWithCategory retrieves an expense with its category by ID.
	FindByIDWithCategory(ctx context.Context, id, userID int64) (*entity.ExpenseWithCategory, error)

	// FindByFilter retrieves one page of expenses matching the filter,
	// ordered by expense date then creation time, both descending.
	FindByFilter(ctx context.Context, userID int64, filter ExpenseFilter, pagination ExpensePagination) (*entity.ExpenseListResult, error)

	// FindForAggregation retrieves all expenses matching the filter with their
	// categories joined, without pagination, for in-memory aggregation.
	FindForAggregation(ctx context.Context, userID int64, filter ExpenseFilter) ([]*entity.ExpenseWithCategory, error)

	// GetTotals calculates the summed amount and row count for the filter.
	GetTotals(ctx context.Context, userID int64, filter ExpenseFilter) (*entity.ExpenseTotals, error)

	// Update updates an existing expense in the database.
	Update(ctx context.Context, expense *entity.Expense) error

	// Delete removes an expense from the database.
	Delete(ctx context.Context, id, userID int64) error

	// CountByCategory counts expenses referencing the given category.
	CountByCategory(ctx context.Context, categoryID, userID int64) (int64, error)
}
