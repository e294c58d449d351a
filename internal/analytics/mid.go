package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/midscope/internal/model"
)

// IndexByMID groups transactions by MID, keeping input order within a group.
func IndexByMID(txns []model.Transaction) map[string][]model.Transaction {
	index := make(map[string][]model.Transaction)
	for i := range txns {
		index[txns[i].MID] = append(index[txns[i].MID], txns[i])
	}
	return index
}

// MIDTotal is one line of the merchant listing.
type MIDTotal struct {
	TotalAmount decimal.Decimal
	MID         string
	Count       int
}

// RankMIDs returns the n busiest MIDs in TopN order, each with the sum of its
// amounts.
func RankMIDs(txns []model.Transaction, n int) []MIDTotal {
	index := IndexByMID(txns)
	ranked := TopN(txns, model.FieldMID, n)
	out := make([]MIDTotal, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, MIDTotal{
			MID:         r.Key,
			Count:       r.Count,
			TotalAmount: Summarize(index[r.Key]).TotalAmount,
		})
	}
	return out
}

// UniqueMIDs returns the distinct MIDs in ascending order.
func UniqueMIDs(txns []model.Transaction) []string {
	seen := make(map[string]struct{})
	mids := []string{}
	for i := range txns {
		if _, ok := seen[txns[i].MID]; ok {
			continue
		}
		seen[txns[i].MID] = struct{}{}
		mids = append(mids, txns[i].MID)
	}
	sort.Strings(mids)
	return mids
}

// FilterByMID returns the transactions whose MID equals the trimmed query.
// An empty query matches nothing.
func FilterByMID(txns []model.Transaction, mid string) []model.Transaction {
	mid = strings.TrimSpace(mid)
	out := []model.Transaction{}
	if mid == "" {
		return out
	}
	for i := range txns {
		if txns[i].MID == mid {
			out = append(out, txns[i])
		}
	}
	return out
}
