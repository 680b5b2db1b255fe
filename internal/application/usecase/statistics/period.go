// Package statistics contains expense statistics use cases.
package statistics

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expense-tracker/backend/internal/domain/entity"
)

// Period represents the time granularity for bucketed statistics.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// bucketCaps limits how many buckets each granularity returns.
var bucketCaps = map[Period]int{
	PeriodDaily:   30,
	PeriodWeekly:  12,
	PeriodMonthly: 12,
	PeriodYearly:  5,
}

// ParsePeriod maps a request string onto a known Period.
// An empty string defaults to monthly.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "":
		return PeriodMonthly, true
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return Period(s), true
	}
	return "", false
}

// BucketCap returns the maximum number of buckets for the period.
func BucketCap(p Period) int {
	return bucketCaps[p]
}

// BucketLabel derives the bucket label for a date at the given granularity.
// Dates are pinned to UTC so the same instant always lands in the same bucket.
// Labels sort lexicographically in chronological order:
// 2006-01-02 (daily), 2006-W02 (ISO week), 2006-01 (monthly), 2006 (yearly).
func BucketLabel(date time.Time, p Period) string {
	d := date.UTC()
	switch p {
	case PeriodDaily:
		return d.Format("2006-01-02")
	case PeriodWeekly:
		year, week := d.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case PeriodMonthly:
		return d.Format("2006-01")
	case PeriodYearly:
		return d.Format("2006")
	}
	return d.Format("2006-01-02")
}

// Bucket represents aggregated expenses for one time bucket.
type Bucket struct {
	Label  string
	Amount decimal.Decimal
	Count  int64
}

// BucketSeries carries the buckets for exactly one granularity.
type BucketSeries struct {
	Period  Period
	Buckets []Bucket
}

// bucketize groups expenses into period buckets, most recent first,
// truncated to at most max buckets.
func bucketize(expenses []*entity.ExpenseWithCategory, period Period, max int) []Bucket {
	agg := make(map[string]*Bucket)
	for _, exp := range expenses {
		label := BucketLabel(exp.Expense.Date, period)
		b, ok := agg[label]
		if !ok {
			b = &Bucket{Label: label}
			agg[label] = b
		}
		b.Amount = b.Amount.Add(exp.Expense.Amount)
		b.Count++
	}

	buckets := make([]Bucket, 0, len(agg))
	for _, b := range agg {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Label > buckets[j].Label
	})

	if len(buckets) > max {
		buckets = buckets[:max]
	}
	return buckets
}
