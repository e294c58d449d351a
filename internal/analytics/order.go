package analytics

import (
	"sort"

	"github.com/Veraticus/midscope/internal/model"
)

// Row limits for transaction tables.
const (
	MainTableLimit   = 200
	WindowTableLimit = 200
)

// SortByAmount returns a copy ordered by amount descending, then by date
// descending. Absent values sort last.
func SortByAmount(txns []model.Transaction) []model.Transaction {
	out := clone(txns)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if c := compareAmount(a, b); c != 0 {
			return c > 0
		}
		return compareDate(a, b) > 0
	})
	return out
}

// SortByLatest returns a copy ordered by date descending. Undated
// transactions sort last.
func SortByLatest(txns []model.Transaction) []model.Transaction {
	out := clone(txns)
	sort.SliceStable(out, func(i, j int) bool {
		return compareDate(&out[i], &out[j]) > 0
	})
	return out
}

// Limit returns at most n leading transactions. n <= 0 means no limit.
func Limit(txns []model.Transaction, n int) []model.Transaction {
	if n <= 0 || len(txns) <= n {
		return txns
	}
	return txns[:n]
}

func clone(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	return out
}

// compareAmount orders present amounts above absent ones.
func compareAmount(a, b *model.Transaction) int {
	switch {
	case a.Amount == nil && b.Amount == nil:
		return 0
	case a.Amount == nil:
		return -1
	case b.Amount == nil:
		return 1
	case *a.Amount > *b.Amount:
		return 1
	case *a.Amount < *b.Amount:
		return -1
	default:
		return 0
	}
}

func compareDate(a, b *model.Transaction) int {
	switch {
	case !a.HasDate() && !b.HasDate():
		return 0
	case !a.HasDate():
		return -1
	case !b.HasDate():
		return 1
	default:
		return a.TransactionDate.Compare(*b.TransactionDate)
	}
}
