package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// dateLayout is the wire format for expense dates.
const dateLayout = "2006-01-02"

// ExpenseController handles expense management requests.
type ExpenseController struct {
	createUseCase *expense.CreateExpenseUseCase
	listUseCase   *expense.ListExpensesUseCase
	getUseCase    *expense.GetExpenseUseCase
	updateUseCase *expense.UpdateExpenseUseCase
	deleteUseCase *expense.DeleteExpenseUseCase
}

// NewExpenseController creates a new expense controller instance.
func NewExpenseController(
	createUseCase *expense.CreateExpenseUseCase,
	listUseCase *expense.ListExpensesUseCase,
	getUseCase *expense.GetExpenseUseCase,
	updateUseCase *expense.UpdateExpenseUseCase,
	deleteUseCase *expense.DeleteExpenseUseCase,
) *ExpenseController {
	return &ExpenseController{
		createUseCase: createUseCase,
		listUseCase:   listUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Create handles POST /expenses.
func (ctrl *ExpenseController) Create(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingExpenseFields),
		})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid date format, expected YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeInvalidDate),
		})
		return
	}

	output, err := ctrl.createUseCase.Execute(c.Request.Context(), expense.CreateExpenseInput{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		ctrl.handleExpenseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(output.Expense))
}

// List handles GET /expenses with optional filters and pagination.
func (ctrl *ExpenseController) List(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	input := expense.ListExpensesInput{
		UserID:      userID,
		Description: c.Query("description"),
	}

	if v := c.Query("start_date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid start_date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidDate),
			})
			return
		}
		input.StartDate = &date
	}
	if v := c.Query("end_date"); v != "" {
		date, err := time.Parse(dateLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end_date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidDate),
			})
			return
		}
		input.EndDate = &date
	}
	if v := c.Query("category_id"); v != "" {
		categoryID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid category_id",
				Code:  string(domainerror.ErrCodeMissingExpenseFields),
			})
			return
		}
		input.CategoryID = &categoryID
	}
	if v := c.Query("min_amount"); v != "" {
		minAmount, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid min_amount",
				Code:  string(domainerror.ErrCodeInvalidAmount),
			})
			return
		}
		input.MinAmount = &minAmount
	}
	if v := c.Query("max_amount"); v != "" {
		maxAmount, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid max_amount",
				Code:  string(domainerror.ErrCodeInvalidAmount),
			})
			return
		}
		input.MaxAmount = &maxAmount
	}

	input.Page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	input.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))

	output, err := ctrl.listUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		ctrl.handleExpenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseListResponse(output))
}

// Get handles GET /expenses/:id.
func (ctrl *ExpenseController) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	expenseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID",
			Code:  string(domainerror.ErrCodeMissingExpenseFields),
		})
		return
	}

	output, err := ctrl.getUseCase.Execute(c.Request.Context(), expense.GetExpenseInput{
		ExpenseID: expenseID,
		UserID:    userID,
	})
	if err != nil {
		ctrl.handleExpenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense))
}

// Update handles PUT /expenses/:id.
func (ctrl *ExpenseController) Update(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	expenseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID",
			Code:  string(domainerror.ErrCodeMissingExpenseFields),
		})
		return
	}

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingExpenseFields),
		})
		return
	}

	input := expense.UpdateExpenseInput{
		ExpenseID:   expenseID,
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount := decimal.NewFromFloat(*req.Amount)
		input.Amount = &amount
	}
	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid date format, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidDate),
			})
			return
		}
		input.Date = &date
	}

	output, err := ctrl.updateUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		ctrl.handleExpenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToExpenseResponse(output.Expense))
}

// Delete handles DELETE /expenses/:id.
func (ctrl *ExpenseController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	expenseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid expense ID",
			Code:  string(domainerror.ErrCodeMissingExpenseFields),
		})
		return
	}

	_, err = ctrl.deleteUseCase.Execute(c.Request.Context(), expense.DeleteExpenseInput{
		ExpenseID: expenseID,
		UserID:    userID,
	})
	if err != nil {
		ctrl.handleExpenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Expense deleted successfully"})
}

// handleExpenseError maps expense domain errors to HTTP responses.
func (ctrl *ExpenseController) handleExpenseError(c *gin.Context, err error) {
	var expenseErr *domainerror.ExpenseError
	if errors.As(err, &expenseErr) {
		c.JSON(getStatusCodeForExpenseError(expenseErr.Code), dto.ErrorResponse{
			Error: expenseErr.Message,
			Code:  string(expenseErr.Code),
		})
		return
	}

	var categoryErr *domainerror.CategoryError
	if errors.As(err, &categoryErr) {
		c.JSON(getStatusCodeForCategoryError(categoryErr.Code), dto.ErrorResponse{
			Error: categoryErr.Message,
			Code:  string(categoryErr.Code),
		})
		return
	}

	switch {
	case errors.Is(err, domainerror.ErrExpenseNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Expense not found",
			Code:  string(domainerror.ErrCodeExpenseNotFound),
		})
	case errors.Is(err, domainerror.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error: "Category not found",
			Code:  string(domainerror.ErrCodeCategoryNotFound),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Internal server error",
		})
	}
}

// getStatusCodeForExpenseError maps expense error codes to HTTP status codes.
func getStatusCodeForExpenseError(code domainerror.ExpenseErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidDescription,
		domainerror.ErrCodeInvalidDate,
		domainerror.ErrCodeInvalidDateRange,
		domainerror.ErrCodeInvalidAmountRange,
		domainerror.ErrCodeMissingExpenseFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeExpenseNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
