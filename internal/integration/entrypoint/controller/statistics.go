package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/application/usecase/statistics"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
)

// StatisticsController handles statistics requests.
type StatisticsController struct {
	getStatisticsUseCase     *statistics.GetStatisticsUseCase
	categoryTrendUseCase     *statistics.GetCategoryTrendUseCase
	monthlyComparisonUseCase *statistics.GetMonthlyComparisonUseCase
	todaySummaryUseCase      *statistics.GetTodaySummaryUseCase
}

// NewStatisticsController creates a new statistics controller instance.
func NewStatisticsController(
	getStatisticsUseCase *statistics.GetStatisticsUseCase,
	categoryTrendUseCase *statistics.GetCategoryTrendUseCase,
	monthlyComparisonUseCase *statistics.GetMonthlyComparisonUseCase,
	todaySummaryUseCase *statistics.GetTodaySummaryUseCase,
) *StatisticsController {
	return &StatisticsController{
		getStatisticsUseCase:     getStatisticsUseCase,
		categoryTrendUseCase:     categoryTrendUseCase,
		monthlyComparisonUseCase: monthlyComparisonUseCase,
		todaySummaryUseCase:      todaySummaryUseCase,
	}
}

// Get handles GET /statistics with optional filters and a period.
func (ctrl *StatisticsController) Get(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	period, ok := statistics.ParsePeriod(c.Query("period"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Period must be: daily, weekly, monthly or yearly",
			Code:  string(domainerror.ErrCodeInvalidPeriod),
		})
		return
	}

	input := statistics.GetStatisticsInput{
		UserID:      userID,
		Description: c.Query("description"),
		Period:      period,
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
				Code:  string(domainerror.ErrCodeInvalidStatsRange),
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
				Code:  string(domainerror.ErrCodeInvalidStatsRange),
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
				Code:  string(domainerror.ErrCodeInvalidStatsRange),
			})
			return
		}
		input.MaxAmount = &maxAmount
	}

	output, err := ctrl.getStatisticsUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		ctrl.handleStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatisticsResponse(output))
}

// CategoryTrend handles GET /statistics/category-trends/:categoryId.
func (ctrl *StatisticsController) CategoryTrend(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	categoryID, err := strconv.ParseInt(c.Param("categoryId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID",
			Code:  string(domainerror.ErrCodeCategoryNotFound),
		})
		return
	}

	period, ok := statistics.ParsePeriod(c.Query("period"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Period must be: daily, weekly, monthly or yearly",
			Code:  string(domainerror.ErrCodeInvalidPeriod),
		})
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid limit",
				Code:  string(domainerror.ErrCodeInvalidLimit),
			})
			return
		}
	}

	output, err := ctrl.categoryTrendUseCase.Execute(c.Request.Context(), statistics.GetCategoryTrendInput{
		UserID:     userID,
		CategoryID: categoryID,
		Period:     period,
		Limit:      limit,
	})
	if err != nil {
		ctrl.handleStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryTrendResponse(output))
}

// MonthlyComparison handles GET /statistics/monthly-comparison.
func (ctrl *StatisticsController) MonthlyComparison(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	months := 0
	if v := c.Query("months"); v != "" {
		var err error
		months, err = strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid months",
				Code:  string(domainerror.ErrCodeInvalidMonthCount),
			})
			return
		}
	}

	output, err := ctrl.monthlyComparisonUseCase.Execute(c.Request.Context(), statistics.GetMonthlyComparisonInput{
		UserID: userID,
		Months: months,
	})
	if err != nil {
		ctrl.handleStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMonthlyComparisonResponse(output))
}

// TodaySummary handles GET /statistics/today.
func (ctrl *StatisticsController) TodaySummary(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	output, err := ctrl.todaySummaryUseCase.Execute(c.Request.Context(), statistics.GetTodaySummaryInput{
		UserID: userID,
	})
	if err != nil {
		ctrl.handleStatisticsError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTodaySummaryResponse(output))
}

// handleStatisticsError maps statistics domain errors to HTTP responses.
func (ctrl *StatisticsController) handleStatisticsError(c *gin.Context, err error) {
	var statsErr *domainerror.StatisticsError
	if errors.As(err, &statsErr) {
		c.JSON(getStatusCodeForStatisticsError(statsErr.Code), dto.ErrorResponse{
			Error: statsErr.Message,
			Code:  string(statsErr.Code),
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

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "Internal server error",
	})
}

// getStatusCodeForStatisticsError maps statistics error codes to HTTP status codes.
func getStatusCodeForStatisticsError(code domainerror.StatisticsErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidPeriod,
		domainerror.ErrCodeInvalidLimit,
		domainerror.ErrCodeInvalidMonthCount,
		domainerror.ErrCodeInvalidStatsRange:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
