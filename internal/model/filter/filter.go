package filter

import (
	"strings"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

// Criteria holds five independent optional predicates. An empty field
// imposes no constraint; all fields empty is the identity filter.
// Date bounds are inclusive canonical YYYY-MM-DD strings.
type Criteria struct {
	Search   string
	DateFrom string
	DateTo   string
	Category string
	Method   string
}

// Active reports whether any predicate is set. Callers use it to tell
// "no filter applied" apart from "filter applied, nothing matched".
func (c Criteria) Active() bool {
	return c != Criteria{}
}

// Result is the filtered view plus the active signal.
type Result struct {
	Records []expense.Record
	Active  bool
}

// Apply returns the records for which every set predicate holds, keeping
// the input order. It never mutates its input and is idempotent.
func Apply(records []expense.Record, c Criteria) Result {
	if !c.Active() {
		return Result{Records: records, Active: false}
	}

	search := strings.ToLower(c.Search)
	res := make([]expense.Record, 0, len(records))
	for _, rec := range records {
		if search != "" && !strings.Contains(strings.ToLower(rec.Item), search) {
			continue
		}
		if c.DateFrom != "" && rec.Date < c.DateFrom {
			continue
		}
		if c.DateTo != "" && rec.Date > c.DateTo {
			continue
		}
		if c.Category != "" && rec.Category != c.Category {
			continue
		}
		if c.Method != "" && rec.Method != c.Method {
			continue
		}
		res = append(res, rec)
	}
	return Result{Records: res, Active: true}
}
