package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/midscope/internal/model"
)

// Period key layouts.
const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"
)

// ByDay buckets transactions by calendar day of their transaction date.
func ByDay(txns []model.Transaction) []Bucket {
	return series(txns, DayLayout)
}

// ByMonth buckets transactions by calendar month of their transaction date.
func ByMonth(txns []model.Transaction) []Bucket {
	return series(txns, MonthLayout)
}

// series groups dated transactions by the formatted period key. The date is
// formatted in its own location, which the normalizer sets to the display zone.
func series(txns []model.Transaction, layout string) []Bucket {
	buckets := make(map[string]*Bucket)

	for i := range txns {
		tx := &txns[i]
		if !tx.HasDate() {
			continue
		}
		key := tx.TransactionDate.Format(layout)
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{Period: key, TotalAmount: decimal.Zero, TotalSettled: decimal.Zero}
			buckets[key] = b
		}
		b.Count++
		b.TotalAmount = b.TotalAmount.Add(decimal.NewFromFloat(tx.AmountOr(0)))
		b.TotalSettled = b.TotalSettled.Add(decimal.NewFromFloat(tx.SettledOr(0)))
	}

	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Period < out[j].Period
	})
	return out
}
