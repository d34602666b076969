package expense

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form used everywhere in the
// tracker. Lexicographic order of such strings equals chronological order.
const DateLayout = "2006-01-02"

const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryEntertainment = "Entertainment"
	CategoryShopping      = "Shopping"
	CategoryBills         = "Bills"
	CategoryOther         = "Other"
)

var Categories = []string{
	CategoryFood,
	CategoryTransport,
	CategoryEntertainment,
	CategoryShopping,
	CategoryBills,
	CategoryOther,
}

const (
	MethodCash     = "Cash"
	MethodCard     = "Card"
	MethodTransfer = "Transfer"
	MethodEWallet  = "E-Wallet"
)

var Methods = []string{MethodCash, MethodCard, MethodTransfer, MethodEWallet}

// Record is a single expense entry. Total is derived and always equals
// Qty * Price; it is never set independently.
type Record struct {
	ID       string
	Item     string
	Qty      int64
	Price    int64
	Total    int64
	Date     string
	Method   string
	Category string
}

// New builds a record with an id derived from the creation instant and the
// total computed from qty and price.
func New(item string, qty, price int64, date, method, category string, createdAt time.Time) Record {
	return Record{
		ID:       strconv.FormatInt(createdAt.UnixMilli(), 10),
		Item:     strings.TrimSpace(item),
		Qty:      qty,
		Price:    price,
		Total:    qty * price,
		Date:     date,
		Method:   method,
		Category: category,
	}
}

// Update replaces the editable fields in place, preserving identity and
// recomputing the total.
func (r *Record) Update(item string, qty, price int64, date, method, category string) {
	r.Item = strings.TrimSpace(item)
	r.Qty = qty
	r.Price = price
	r.Total = qty * price
	r.Date = date
	r.Method = method
	r.Category = category
}

// Day parses the record date in the given location. The second result is
// false for absent or malformed dates; such records never match a time
// window.
func (r Record) Day(loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(DateLayout, r.Date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
