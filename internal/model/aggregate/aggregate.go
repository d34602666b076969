package aggregate

import (
	"time"

	"github.com/jinzhu/now"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/tier"
)

// Trend multipliers: a window total above its baseline by more than 10% is
// approaching the limit, above by more than 20% has exceeded it.
const (
	trendWarnMult = 1.1
	trendCritMult = 1.2

	weekBaselineDays  = 7
	monthBaselineDays = 30
)

type Trend string

const (
	TrendNormal      Trend = "normal"
	TrendApproaching Trend = "approaching"
	TrendExceeded    Trend = "exceeded"
)

// Window aggregates one time window: the summed total, the number of
// distinct calendar dates inside the window, the per-day average over those
// dates and the trend against the window baseline.
type Window struct {
	Total         int64
	DistinctDates int
	AvgPerDay     float64
	Trend         Trend
}

// CategoryTotal carries the sum and record count of one category.
// Slices of it preserve first-occurrence order of the input list.
type CategoryTotal struct {
	Category string
	Total    int64
	Count    int
}

// Summary is the full aggregation output for one record list at one
// reference instant. It is a pure function of its inputs.
type Summary struct {
	Today Window
	Week  Window
	Month Window

	// AvgPerDay is the overall total divided by the count of distinct
	// dates across the whole list, not just recent ones.
	AvgPerDay float64

	Categories []CategoryTotal
	GrandTotal int64
}

// Compute aggregates the full record list against the given reference
// instant. Records with malformed dates count toward the grand total and
// category sums but never match a time window.
func Compute(records []expense.Record, at time.Time) Summary {
	loc := at.Location()
	today := at.Format(expense.DateLayout)

	n := now.New(at)
	weekStart := n.BeginningOfWeek()
	weekEnd := n.EndOfWeek()

	var s Summary
	allDates := make(map[string]struct{})
	weekDates := make(map[string]struct{})
	monthDates := make(map[string]struct{})

	for _, rec := range records {
		s.GrandTotal += rec.Total
		allDates[rec.Date] = struct{}{}

		if rec.Date == today {
			s.Today.Total += rec.Total
		}
		d, ok := rec.Day(loc)
		if !ok {
			continue
		}
		if !d.Before(weekStart) && !d.After(weekEnd) {
			s.Week.Total += rec.Total
			weekDates[rec.Date] = struct{}{}
		}
		if d.Month() == at.Month() && d.Year() == at.Year() {
			s.Month.Total += rec.Total
			monthDates[rec.Date] = struct{}{}
		}
	}

	s.Today.DistinctDates = distinctToday(records, today)
	s.Week.DistinctDates = len(weekDates)
	s.Month.DistinctDates = len(monthDates)

	s.AvgPerDay = average(s.GrandTotal, len(allDates))
	s.Today.AvgPerDay = s.AvgPerDay
	s.Week.AvgPerDay = average(s.Week.Total, s.Week.DistinctDates)
	s.Month.AvgPerDay = average(s.Month.Total, s.Month.DistinctDates)

	s.Today.Trend = classifyTrend(float64(s.Today.Total), s.AvgPerDay)
	s.Week.Trend = classifyTrend(float64(s.Week.Total), s.Week.AvgPerDay*weekBaselineDays)
	s.Month.Trend = classifyTrend(float64(s.Month.Total), s.Month.AvgPerDay*monthBaselineDays)

	s.Categories = CategoryTotals(records)
	return s
}

// CategoryTotals groups the whole list by category, keeping categories in
// the order they first appear so rendering stays stable.
func CategoryTotals(records []expense.Record) []CategoryTotal {
	index := make(map[string]int)
	res := make([]CategoryTotal, 0)
	for _, rec := range records {
		i, ok := index[rec.Category]
		if !ok {
			i = len(res)
			index[rec.Category] = i
			res = append(res, CategoryTotal{Category: rec.Category})
		}
		res[i].Total += rec.Total
		res[i].Count++
	}
	return res
}

// average divides a total by a distinct-date count, flooring the divisor at
// one so an empty window yields zero rather than a fault.
func average(total int64, dates int) float64 {
	if dates < 1 {
		dates = 1
	}
	return float64(total) / float64(dates)
}

// classifyTrend uses strict bounds: a total exactly on a threshold stays
// in the lower tier, unlike the budget policy.
func classifyTrend(total, baseline float64) Trend {
	switch tier.ClassifyStrict(total, baseline, trendWarnMult, trendCritMult) {
	case tier.LevelCritical:
		return TrendExceeded
	case tier.LevelWarning:
		return TrendApproaching
	default:
		return TrendNormal
	}
}

func distinctToday(records []expense.Record, today string) int {
	for _, rec := range records {
		if rec.Date == today {
			return 1
		}
	}
	return 0
}
