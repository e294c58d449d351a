package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/midscope/internal/model"
)

func TestRoundFigures(t *testing.T) {
	var txns []model.Transaction
	for _, a := range []float64{3000, 4728, 4444.78, 50000, 50000} {
		txns = append(txns, tx("A", withAmount(a)))
	}
	txns = append(txns, tx("A"))

	stats := RoundFigures(txns)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 3, stats.RoundCount)
	assert.InDelta(t, 60.0, stats.RoundPct, 1e-9)
	require.Len(t, stats.TopRounds, 2)
	assert.Equal(t, RoundValue{Amount: 50000, Count: 2}, stats.TopRounds[0])
	assert.Equal(t, RoundValue{Amount: 3000, Count: 1}, stats.TopRounds[1])
}

func TestRoundFigures_NoAmounts(t *testing.T) {
	stats := RoundFigures([]model.Transaction{tx("A"), tx("B")})

	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.RoundCount)
	assert.Zero(t, stats.RoundPct)
	assert.NotNil(t, stats.TopRounds)
	assert.Empty(t, stats.TopRounds)
}

func TestRoundFigures_TopTenTieOrder(t *testing.T) {
	var txns []model.Transaction
	for i := 1; i <= 12; i++ {
		txns = append(txns, tx("A", withAmount(float64(i*10))))
	}
	txns = append(txns, tx("A", withAmount(120)))

	stats := RoundFigures(txns)

	require.Len(t, stats.TopRounds, TopRoundsLimit)
	assert.Equal(t, RoundValue{Amount: 120, Count: 2}, stats.TopRounds[0])
	assert.Equal(t, 10.0, stats.TopRounds[1].Amount)
	assert.Equal(t, 90.0, stats.TopRounds[9].Amount)
}

func TestIsRound(t *testing.T) {
	tests := []struct {
		amount float64
		want   bool
	}{
		{0, true},
		{10, true},
		{-20, true},
		{100000, true},
		{15, false},
		{10.5, false},
		{4444.78, false},
		{math.NaN(), false},
		{math.Inf(1), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRound(tt.amount), "amount %v", tt.amount)
	}
}
