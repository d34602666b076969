package session

import (
	"max.ks1230/expense-tracker/internal/entity/budget"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// Session is the loaded state of one authenticated user: the full record
// list (newest entry first) and the budget configuration. It is a plain
// value threaded through core calls, replaced wholesale on login.
type Session struct {
	UserID   int64
	Expenses []expense.Record
	Budget   budget.Config
}

// Find returns the record with the given id, if present.
func (s Session) Find(id string) (expense.Record, bool) {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e, true
		}
	}
	return expense.Record{}, false
}
