package messages

import (
	"fmt"
	"strconv"
	"strings"

	"max.ks1230/expense-tracker/internal/model/aggregate"
	"max.ks1230/expense-tracker/internal/model/budget"
	"max.ks1230/expense-tracker/internal/model/economy"
	"max.ks1230/expense-tracker/internal/model/export"
	"max.ks1230/expense-tracker/internal/model/filter"
	"max.ks1230/expense-tracker/internal/model/session"
	"max.ks1230/expense-tracker/internal/model/tier"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

var trendBadges = map[aggregate.Trend]string{
	aggregate.TrendNormal:      "✓ Normal",
	aggregate.TrendApproaching: "⚡ Approaching limit",
	aggregate.TrendExceeded:    "⚠ Above average",
}

// formatAmount renders an integer amount with thousand separators, e.g.
// "Rp 30.000".
func (s *HandlerService) formatAmount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return s.currency + " " + b.String()
}

func (s *HandlerService) formatRecords(res filter.Result, markUnnecessary bool) string {
	lines := make([]string, 0, len(res.Records)+2)
	if res.Active {
		lines = append(lines, "Filtered view:")
	}
	var total int64
	for _, rec := range res.Records {
		line := fmt.Sprintf("%s | %s x%d @ %s = %s | %s | %s | %s",
			rec.ID, rec.Item, rec.Qty,
			s.formatAmount(rec.Price), s.formatAmount(rec.Total),
			rec.Date, rec.Method, rec.Category,
		)
		if markUnnecessary && economy.Unnecessary(rec) {
			line += " ❗"
		}
		lines = append(lines, line)
		total += rec.Total
	}
	lines = append(lines, "", "Total: "+s.formatAmount(total))
	return strings.Join(lines, "\n")
}

func (s *HandlerService) formatSummary(sum aggregate.Summary) string {
	lines := []string{
		fmt.Sprintf("Today: %s  %s", s.formatAmount(sum.Today.Total), trendBadges[sum.Today.Trend]),
		fmt.Sprintf("This week: %s  %s", s.formatAmount(sum.Week.Total), trendBadges[sum.Week.Trend]),
		fmt.Sprintf("This month: %s  %s", s.formatAmount(sum.Month.Total), trendBadges[sum.Month.Trend]),
		fmt.Sprintf("Average per day: %.2f", sum.AvgPerDay),
	}
	if len(sum.Categories) > 0 {
		lines = append(lines, "", "By category:")
		for _, cat := range sum.Categories {
			lines = append(lines, fmt.Sprintf("%s: %s (%d records)",
				cat.Category, s.formatAmount(cat.Total), cat.Count))
		}
	}
	lines = append(lines, "", "Overall: "+s.formatAmount(sum.GrandTotal))
	return strings.Join(lines, "\n")
}

func (s *HandlerService) formatBudgetReport(rep session.BudgetReport) string {
	lines := make([]string, 0, len(rep.Categories)+2)
	lines = append(lines, "Daily budget: "+s.formatEvaluation(rep.Daily))
	for _, cat := range rep.Categories {
		lines = append(lines, cat.Category+": "+s.formatEvaluation(cat.Evaluation))
	}
	return strings.Join(lines, "\n")
}

func (s *HandlerService) formatEvaluation(eval budget.Evaluation) string {
	if !eval.Applicable {
		return s.formatAmount(eval.Spent) + " spent, no budget set"
	}
	mark := "✓"
	switch eval.Level {
	case tier.LevelWarning:
		mark = "⚡"
	case tier.LevelCritical:
		mark = "⚠"
	}
	return fmt.Sprintf("%s of %s (%.0f%%) %s",
		s.formatAmount(eval.Spent), s.formatAmount(eval.Limit), eval.Percentage, mark)
}

func (s *HandlerService) formatCriteria(c filter.Criteria) string {
	if !c.Active() {
		return "No filter active"
	}
	parts := make([]string, 0, 5)
	if c.Search != "" {
		parts = append(parts, "search="+c.Search)
	}
	if c.DateFrom != "" {
		parts = append(parts, "from="+c.DateFrom)
	}
	if c.DateTo != "" {
		parts = append(parts, "to="+c.DateTo)
	}
	if c.Category != "" {
		parts = append(parts, "category="+c.Category)
	}
	if c.Method != "" {
		parts = append(parts, "method="+c.Method)
	}
	return "Filter: " + strings.Join(parts, " ")
}

func (s *HandlerService) formatCharts(charts session.ChartData) string {
	lines := make([]string, 0, len(charts.Daily)+len(charts.Categories)+2)
	lines = append(lines, "Last 7 days:")
	for _, day := range charts.Daily {
		lines = append(lines, fmt.Sprintf("%s: %s", day.Date, s.formatAmount(day.Total)))
	}
	if len(charts.Categories) > 0 {
		lines = append(lines, "", "By category:")
		for _, cat := range charts.Categories {
			lines = append(lines, fmt.Sprintf("%s: %s", cat.Category, s.formatAmount(cat.Total)))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *HandlerService) formatAlert(alert *budget.Alert) string {
	if alert == nil {
		return ""
	}
	if alert.Level == tier.LevelCritical.String() {
		return fmt.Sprintf("\n⚠️ Daily budget almost gone: %.0f%% spent", alert.Percentage)
	}
	return fmt.Sprintf("\n⚡ Daily budget reached %.0f%%", alert.Percentage)
}

func formatCSV(records []expense.Record) (string, error) {
	var b strings.Builder
	if err := export.WriteCSV(&b, records); err != nil {
		return cannotGetDataMessage, err
	}
	return b.String(), nil
}
