package dto

import (
	"github.com/expense-tracker/backend/internal/application/usecase/statistics"
)

// CategoryBreakdownResponse represents one category's share of the total.
type CategoryBreakdownResponse struct {
	CategoryID    int64   `json:"category_id"`
	CategoryName  string  `json:"category_name"`
	CategoryIcon  string  `json:"category_icon"`
	CategoryColor string  `json:"category_color"`
	Amount        float64 `json:"amount"`
	Count         int64   `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// TimeBucketResponse represents one aggregated time bucket.
type TimeBucketResponse struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// StatisticsResponse represents the statistics summary. Only the array
// matching the requested period is populated, the others stay empty.
type StatisticsResponse struct {
	TotalAmount       float64                     `json:"total_amount"`
	TotalCount        int64                       `json:"total_count"`
	CategoryBreakdown []CategoryBreakdownResponse `json:"category_breakdown"`
	DailyData         []TimeBucketResponse        `json:"daily_data"`
	WeeklyData        []TimeBucketResponse        `json:"weekly_data"`
	MonthlyData       []TimeBucketResponse        `json:"monthly_data"`
	YearlyData        []TimeBucketResponse        `json:"yearly_data"`
}

// CategoryTrendResponse represents a single-category spending trend.
type CategoryTrendResponse struct {
	CategoryID    int64                `json:"category_id"`
	CategoryName  string               `json:"category_name"`
	CategoryIcon  string               `json:"category_icon"`
	CategoryColor string               `json:"category_color"`
	Period        string               `json:"period"`
	Trend         []TimeBucketResponse `json:"trend"`
}

// MonthlyTotalResponse represents aggregated expenses for one calendar month.
type MonthlyTotalResponse struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// MonthlyComparisonResponse represents the month-over-month view.
type MonthlyComparisonResponse struct {
	Months []MonthlyTotalResponse `json:"months"`
}

// PeriodTotalsResponse represents summed expenses over one summary window.
type PeriodTotalsResponse struct {
	Amount float64 `json:"amount"`
	Count  int64   `json:"count"`
}

// TodaySummaryResponse represents spending for today, this month and this year.
type TodaySummaryResponse struct {
	Today     PeriodTotalsResponse `json:"today"`
	ThisMonth PeriodTotalsResponse `json:"this_month"`
	ThisYear  PeriodTotalsResponse `json:"this_year"`
}

// toTimeBuckets converts a bucket slice to its response form.
func toTimeBuckets(buckets []statistics.Bucket) []TimeBucketResponse {
	out := make([]TimeBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = TimeBucketResponse{
			Label:  b.Label,
			Amount: b.Amount.InexactFloat64(),
			Count:  b.Count,
		}
	}
	return out
}

// ToStatisticsResponse converts the statistics output to a response DTO,
// projecting the bucket series onto the array for its period.
func ToStatisticsResponse(out *statistics.GetStatisticsOutput) StatisticsResponse {
	response := StatisticsResponse{
		TotalAmount:       out.TotalAmount.InexactFloat64(),
		TotalCount:        out.TotalCount,
		CategoryBreakdown: make([]CategoryBreakdownResponse, len(out.Breakdown)),
		DailyData:         []TimeBucketResponse{},
		WeeklyData:        []TimeBucketResponse{},
		MonthlyData:       []TimeBucketResponse{},
		YearlyData:        []TimeBucketResponse{},
	}

	for i, item := range out.Breakdown {
		response.CategoryBreakdown[i] = CategoryBreakdownResponse{
			CategoryID:    item.CategoryID,
			CategoryName:  item.CategoryName,
			CategoryIcon:  item.CategoryIcon,
			CategoryColor: item.CategoryColor,
			Amount:        item.Amount.InexactFloat64(),
			Count:         item.Count,
			Percentage:    item.Percentage,
		}
	}

	buckets := toTimeBuckets(out.Series.Buckets)
	switch out.Series.Period {
	case statistics.PeriodDaily:
		response.DailyData = buckets
	case statistics.PeriodWeekly:
		response.WeeklyData = buckets
	case statistics.PeriodMonthly:
		response.MonthlyData = buckets
	case statistics.PeriodYearly:
		response.YearlyData = buckets
	}

	return response
}

// ToCategoryTrendResponse converts the category trend output to a response DTO.
func ToCategoryTrendResponse(out *statistics.GetCategoryTrendOutput) CategoryTrendResponse {
	return CategoryTrendResponse{
		CategoryID:    out.CategoryID,
		CategoryName:  out.CategoryName,
		CategoryIcon:  out.CategoryIcon,
		CategoryColor: out.CategoryColor,
		Period:        string(out.Series.Period),
		Trend:         toTimeBuckets(out.Series.Buckets),
	}
}

// ToMonthlyComparisonResponse converts the comparison output to a response DTO.
func ToMonthlyComparisonResponse(out *statistics.GetMonthlyComparisonOutput) MonthlyComparisonResponse {
	response := MonthlyComparisonResponse{
		Months: make([]MonthlyTotalResponse, len(out.Months)),
	}
	for i, m := range out.Months {
		response.Months[i] = MonthlyTotalResponse{
			Month:  m.Month,
			Amount: m.Amount.InexactFloat64(),
			Count:  m.Count,
		}
	}
	return response
}

// ToTodaySummaryResponse converts the summary output to a response DTO.
func ToTodaySummaryResponse(out *statistics.GetTodaySummaryOutput) TodaySummaryResponse {
	return TodaySummaryResponse{
		Today:     PeriodTotalsResponse{Amount: out.Today.Amount.InexactFloat64(), Count: out.Today.Count},
		ThisMonth: PeriodTotalsResponse{Amount: out.ThisMonth.Amount.InexactFloat64(), Count: out.ThisMonth.Count},
		ThisYear:  PeriodTotalsResponse{Amount: out.ThisYear.Amount.InexactFloat64(), Count: out.ThisYear.Count},
	}
}
