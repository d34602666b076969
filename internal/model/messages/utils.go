package messages

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/model/filter"
)

const commandParts = 2

func location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	split := strings.SplitN(text, " ", commandParts)
	if len(split) == commandParts {
		return split[0], split[1]
	}
	return text, ""
}

func splitFirst(text string) (first, rest string) {
	split := strings.SplitN(strings.TrimSpace(text), " ", commandParts)
	if len(split) == commandParts {
		return split[0], split[1]
	}
	if len(split) == 1 {
		return split[0], ""
	}
	return "", ""
}

type entryInput struct {
	item     string
	qty      int64
	price    int64
	date     string
	method   string
	category string
}

// parseEntry reads "<item> <qty> <price> [date] [method] [category]".
// Omitted fields default to today, cash and the catch-all category.
func parseEntry(arg string, at time.Time) (entryInput, error) {
	args := strings.Fields(arg)
	if len(args) < 3 {
		return entryInput{}, fmt.Errorf("expected at least item, qty and price")
	}

	qty, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return entryInput{}, fmt.Errorf("qty %q is not a whole number", args[1])
	}
	price, err := strconv.ParseInt(args[2], 10, 64)
	if err != nil {
		return entryInput{}, fmt.Errorf("price %q is not a whole number", args[2])
	}

	in := entryInput{
		item:     args[0],
		qty:      qty,
		price:    price,
		date:     at.Format(expense.DateLayout),
		method:   expense.MethodCash,
		category: expense.CategoryOther,
	}
	if len(args) > 3 {
		in.date = args[3]
	}
	if len(args) > 4 {
		in.method = args[4]
	}
	if len(args) > 5 {
		in.category = args[5]
	}
	return in, nil
}

func parseAmount(arg string) (int64, error) {
	amount, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || amount < 0 {
		return 0, fmt.Errorf("amount %q is not a whole non-negative number", arg)
	}
	return amount, nil
}

// parseCriteria reads "key=value" pairs: search, from, to, category,
// method. The search value may contain spaces when quoted with the rest of
// the pair, so pairs are split on whitespace and unknown keys rejected.
func parseCriteria(arg string) (filter.Criteria, error) {
	var c filter.Criteria
	for _, pair := range strings.Fields(arg) {
		key, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			return filter.Criteria{}, fmt.Errorf("expected key=value, got %q", pair)
		}
		switch key {
		case "search":
			c.Search = value
		case "from":
			c.DateFrom = value
		case "to":
			c.DateTo = value
		case "category":
			c.Category = value
		case "method":
			c.Method = value
		default:
			return filter.Criteria{}, fmt.Errorf("unknown filter key %q", key)
		}
	}
	return c, nil
}
