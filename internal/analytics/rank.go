package analytics

import (
	"sort"
	"strings"

	"github.com/Veraticus/midscope/internal/model"
)

// UnknownLabel replaces empty values in breakdowns.
const UnknownLabel = "Unknown"

// Breakdown counts every distinct value of field. Empty values are counted
// under UnknownLabel. Slices are returned in first-encounter order.
func Breakdown(txns []model.Transaction, field model.Field) []Slice {
	index := make(map[string]int)
	var out []Slice

	for i := range txns {
		label := txns[i].Value(field)
		if label == "" {
			label = UnknownLabel
		}
		pos, ok := index[label]
		if !ok {
			pos = len(out)
			index[label] = pos
			out = append(out, Slice{Name: label})
		}
		out[pos].Value++
	}

	return out
}

// TopN ranks the trimmed values of field by frequency and keeps the first n.
// Empty values are skipped. Equal counts keep first-encounter order.
func TopN(txns []model.Transaction, field model.Field, n int) []Ranked {
	return TopNWhere(txns, nil, field, n)
}

// TopNWhere is TopN over the transactions accepted by pred. A nil pred
// accepts everything.
func TopNWhere(txns []model.Transaction, pred func(*model.Transaction) bool, field model.Field, n int) []Ranked {
	if n <= 0 {
		return []Ranked{}
	}

	index := make(map[string]int)
	var counts []Ranked

	for i := range txns {
		tx := &txns[i]
		if pred != nil && !pred(tx) {
			continue
		}
		key := strings.TrimSpace(tx.Value(field))
		if key == "" {
			continue
		}
		pos, ok := index[key]
		if !ok {
			pos = len(counts)
			index[key] = pos
			counts = append(counts, Ranked{Key: key})
		}
		counts[pos].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if len(counts) > n {
		counts = counts[:n]
	}
	if counts == nil {
		return []Ranked{}
	}
	return counts
}

// ModeIs returns a predicate matching transactions with the given payment mode.
func ModeIs(mode string) func(*model.Transaction) bool {
	return func(tx *model.Transaction) bool {
		return tx.PaymentMode == mode
	}
}
