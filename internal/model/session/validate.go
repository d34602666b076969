package session

import (
	"strings"
	"time"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/customerr"
	"max.ks1230/expense-tracker/internal/utils"
)

var errNegativeBudget = &customerr.ValidationError{Err: "budget amount must not be negative"}

// validateInput rejects malformed add/edit input before anything is
// mutated.
func validateInput(item string, qty, price int64, date, method, category string) error {
	if strings.TrimSpace(item) == "" {
		return &customerr.ValidationError{Err: "item name must not be empty"}
	}
	if qty <= 0 {
		return &customerr.ValidationError{Err: "quantity must be positive"}
	}
	if price <= 0 {
		return &customerr.ValidationError{Err: "price must be positive"}
	}
	if _, err := time.Parse(expense.DateLayout, date); err != nil {
		return &customerr.ValidationError{Err: "date must be yyyy-mm-dd"}
	}
	if !utils.Contains(expense.Methods, method) {
		return &customerr.ValidationError{Err: "unknown payment method " + method}
	}
	if !utils.Contains(expense.Categories, category) {
		return &customerr.ValidationError{Err: "unknown category " + category}
	}
	return nil
}
