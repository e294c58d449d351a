package analytics

import (
	"math"
	"sort"

	"github.com/Veraticus/midscope/internal/model"
)

// TopRoundsLimit caps RoundStats.TopRounds.
const TopRoundsLimit = 10

// IsRound reports whether amount is a whole multiple of ten.
func IsRound(amount float64) bool {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return false
	}
	return amount == math.Trunc(amount) && math.Mod(amount, 10) == 0
}

// RoundFigures counts round amounts among transactions that carry an amount.
func RoundFigures(txns []model.Transaction) RoundStats {
	stats := RoundStats{TopRounds: []RoundValue{}}
	index := make(map[float64]int)

	for i := range txns {
		if txns[i].Amount == nil {
			continue
		}
		amount := *txns[i].Amount
		if math.IsNaN(amount) || math.IsInf(amount, 0) {
			continue
		}
		stats.Total++
		if !IsRound(amount) {
			continue
		}
		stats.RoundCount++

		pos, ok := index[amount]
		if !ok {
			pos = len(stats.TopRounds)
			index[amount] = pos
			stats.TopRounds = append(stats.TopRounds, RoundValue{Amount: amount})
		}
		stats.TopRounds[pos].Count++
	}

	if stats.Total > 0 {
		stats.RoundPct = float64(stats.RoundCount) / float64(stats.Total) * 100
	}

	sort.SliceStable(stats.TopRounds, func(i, j int) bool {
		return stats.TopRounds[i].Count > stats.TopRounds[j].Count
	})
	if len(stats.TopRounds) > TopRoundsLimit {
		stats.TopRounds = stats.TopRounds[:TopRoundsLimit]
	}

	return stats
}
