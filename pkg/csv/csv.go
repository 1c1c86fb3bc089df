package csv

import (
	"bytes"
	"encoding/csv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yurifrl/fluxo/pkg/models"
)

type Record interface {
	Date() time.Time
	Description() string
	Category() string
	Direction() models.Direction
	Signed() decimal.Decimal
	Period() models.Period
}

type FilterFunc[T Record] func(T) bool

// Create writes records as CSV with a header row. Amounts are signed, so
// expenses come out negative.
func Create[T Record](records []T, filter FilterFunc[T]) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Period", "Date", "Description", "Category", "Direction", "Amount"})
	for _, r := range records {
		if filter == nil || filter(r) {
			_ = w.Write([]string{
				r.Period().Key(),
				r.Date().Format("2006-01-02"),
				r.Description(),
				r.Category(),
				r.Direction().String(),
				r.Signed().StringFixed(2),
			})
		}
	}
	w.Flush()
	return buf.Bytes()
}
