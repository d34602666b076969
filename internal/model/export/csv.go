package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"max.ks1230/expense-tracker/internal/entity/expense"
)

var header = []string{"Item", "Qty", "Price", "Total", "Date", "Method", "Category"}

// WriteCSV flattens the record list into tabular text: one plain header
// row, then one row per record in list order with every cell
// double-quoted. encoding/csv quotes only when it must, so rows are
// rendered by hand.
func WriteCSV(w io.Writer, records []expense.Record) error {
	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	for _, rec := range records {
		row := []string{
			rec.Item,
			strconv.FormatInt(rec.Qty, 10),
			strconv.FormatInt(rec.Price, 10),
			strconv.FormatInt(rec.Total, 10),
			rec.Date,
			rec.Method,
			rec.Category,
		}
		for i, cell := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(cell))
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write csv")
}

// quote wraps a cell unconditionally, doubling embedded quotes.
func quote(cell string) string {
	return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
}
