package economy

import (
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// spendingThreshold is the single-record total above which any expense
// counts as unnecessary regardless of category.
const spendingThreshold = 100000

// Unnecessary flags discretionary spending: anything in the entertainment
// category, or any single record whose total exceeds the threshold.
func Unnecessary(rec expense.Record) bool {
	return rec.Category == expense.CategoryEntertainment || rec.Total > spendingThreshold
}

// Flagged returns the records Unnecessary holds for, keeping input order.
func Flagged(records []expense.Record) []expense.Record {
	res := make([]expense.Record, 0)
	for _, rec := range records {
		if Unnecessary(rec) {
			res = append(res, rec)
		}
	}
	return res
}
