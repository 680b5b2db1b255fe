package dto

import (
	"time"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
)

// CreateExpenseRequest represents the request body for creating an expense.
// Date uses the 2006-01-02 format.
type CreateExpenseRequest struct {
	CategoryID  int64   `json:"category_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description" binding:"required,max=200"`
	Date        string  `json:"date" binding:"required"`
}

// UpdateExpenseRequest represents the request body for updating an expense.
// Absent fields are left unchanged.
type UpdateExpenseRequest struct {
	CategoryID  *int64   `json:"category_id"`
	Amount      *float64 `json:"amount" binding:"omitempty,gt=0"`
	Description *string  `json:"description" binding:"omitempty,max=200"`
	Date        *string  `json:"date"`
}

// ExpenseCategoryResponse represents the embedded category of an expense.
type ExpenseCategoryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// ExpenseResponse represents the expense data in API responses.
type ExpenseResponse struct {
	ID          int64                    `json:"id"`
	CategoryID  int64                    `json:"category_id"`
	Amount      float64                  `json:"amount"`
	Description string                   `json:"description"`
	Date        string                   `json:"date"`
	Category    *ExpenseCategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// PaginationResponse represents pagination metadata in list responses.
type PaginationResponse struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ExpenseListResponse represents one page of expenses.
type ExpenseListResponse struct {
	Expenses   []ExpenseResponse  `json:"expenses"`
	Pagination PaginationResponse `json:"pagination"`
}

// ToExpenseResponse converts an expense use case output to a response DTO.
func ToExpenseResponse(out *expense.ExpenseOutput) ExpenseResponse {
	response := ExpenseResponse{
		ID:          out.ID,
		CategoryID:  out.CategoryID,
		Amount:      out.Amount.InexactFloat64(),
		Description: out.Description,
		Date:        out.Date.Format("2006-01-02"),
		CreatedAt:   out.CreatedAt,
		UpdatedAt:   out.UpdatedAt,
	}
	if out.Category != nil {
		response.Category = &ExpenseCategoryResponse{
			ID:    out.Category.ID,
			Name:  out.Category.Name,
			Icon:  out.Category.Icon,
			Color: out.Category.Color,
		}
	}
	return response
}

// ToExpenseListResponse converts a list output to a response DTO.
func ToExpenseListResponse(out *expense.ListExpensesOutput) ExpenseListResponse {
	response := ExpenseListResponse{
		Expenses: make([]ExpenseResponse, len(out.Expenses)),
		Pagination: PaginationResponse{
			Page:       out.Pagination.Page,
			Limit:      out.Pagination.Limit,
			Total:      out.Pagination.Total,
			TotalPages: out.Pagination.TotalPages,
		},
	}
	for i, exp := range out.Expenses {
		response.Expenses[i] = ToExpenseResponse(exp)
	}
	return response
}
