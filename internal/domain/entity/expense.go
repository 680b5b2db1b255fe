package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense constraints.
const (
	ExpenseDescriptionMaxLength = 200
)

// MaxExpenseAmount is the largest amount a single expense may carry.
var MaxExpenseAmount = decimal.RequireFromString("999999.99")

// Expense represents a single expense record.
type Expense struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Amount      decimal.Decimal
	Description string
	Date        time.Time // Calendar date of the expense, distinct from CreatedAt
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new Expense entity.
func NewExpense(userID, categoryID int64, amount decimal.Decimal, description string, date time.Time) *Expense {
	now := time.Now().UTC()

	return &Expense{
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ExpenseWithCategory represents an expense joined with its category.
type ExpenseWithCategory struct {
	Expense  *Expense
	Category *Category // nil when the category row no longer resolves
}

// ExpenseListResult represents one page of a filtered expense listing.
type ExpenseListResult struct {
	Expenses   []*ExpenseWithCategory
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ExpenseTotals represents aggregated totals over a set of expenses.
type ExpenseTotals struct {
	Amount decimal.Decimal
	Count  int64
}
