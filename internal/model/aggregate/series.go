package aggregate

import (
	"time"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

const seriesDays = 7

// DayTotal is one point of a daily time series.
type DayTotal struct {
	Date  string
	Total int64
}

// DailySeries returns the trailing seven days including today, oldest
// first. Days without records appear as explicit zero entries so chart
// axes stay aligned.
func DailySeries(records []expense.Record, at time.Time) []DayTotal {
	byDate := make(map[string]int64, len(records))
	for _, rec := range records {
		byDate[rec.Date] += rec.Total
	}

	series := make([]DayTotal, 0, seriesDays)
	for i := seriesDays - 1; i >= 0; i-- {
		day := at.AddDate(0, 0, -i).Format(expense.DateLayout)
		series = append(series, DayTotal{Date: day, Total: byDate[day]})
	}
	return series
}

// Distribution is the category breakdown over the entire record list,
// unfiltered by any window. It feeds the distribution chart.
func Distribution(records []expense.Record) []CategoryTotal {
	return CategoryTotals(records)
}
