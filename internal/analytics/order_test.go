package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/midscope/internal/model"
)

func mids(txns []model.Transaction) []string {
	out := make([]string, len(txns))
	for i := range txns {
		out[i] = txns[i].MID
	}
	return out
}

func TestSortByAmount(t *testing.T) {
	txns := []model.Transaction{
		tx("no-amount-new", withDate("2024-05-01 00:00")),
		tx("100-old", withAmount(100), withDate("2024-01-01 00:00")),
		tx("500", withAmount(500)),
		tx("100-new", withAmount(100), withDate("2024-02-01 00:00")),
		tx("100-undated", withAmount(100)),
		tx("no-amount-undated"),
	}

	got := SortByAmount(txns)

	assert.Equal(t, []string{"500", "100-new", "100-old", "100-undated", "no-amount-new", "no-amount-undated"}, mids(got))
	assert.Equal(t, "no-amount-new", txns[0].MID, "input is not reordered")
}

func TestSortByLatest(t *testing.T) {
	txns := []model.Transaction{
		tx("undated"),
		tx("mid", withDate("2024-02-01 10:00")),
		tx("late", withDate("2024-02-01 22:00")),
		tx("early", withDate("2023-12-31 23:59")),
	}

	assert.Equal(t, []string{"late", "mid", "early", "undated"}, mids(SortByLatest(txns)))
}

func TestLimit(t *testing.T) {
	txns := repeat(5, tx("A"))

	assert.Len(t, Limit(txns, 3), 3)
	assert.Len(t, Limit(txns, 10), 5)
	assert.Len(t, Limit(txns, 0), 5)
}

func TestMIDHelpers(t *testing.T) {
	txns := []model.Transaction{tx("B"), tx("A"), tx("B"), tx("C")}

	assert.Equal(t, []string{"A", "B", "C"}, UniqueMIDs(txns))
	assert.Empty(t, UniqueMIDs(nil))

	index := IndexByMID(txns)
	require.Len(t, index, 3)
	assert.Len(t, index["B"], 2)

	amounts := []model.Transaction{
		tx("B", withAmount(10)), tx("A", withAmount(1)), tx("B", withAmount(2.5)), tx("B"),
	}
	ranked := RankMIDs(amounts, 1)
	require.Len(t, ranked, 1)
	assert.Equal(t, "B", ranked[0].MID)
	assert.Equal(t, 3, ranked[0].Count)
	assert.Equal(t, "12.50", ranked[0].TotalAmount.StringFixed(2))

	assert.Len(t, FilterByMID(txns, " B "), 2)
	assert.Empty(t, FilterByMID(txns, "b"))
	assert.Empty(t, FilterByMID(txns, "  "))
}

func TestInspect(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 250; i++ {
		txns = append(txns, tx("M1", withAmount(float64(i)), withDate("2024-03-01 23:00"), withMode(model.ModeUPI), withVPA("v@upi")))
	}
	txns = append(txns,
		tx("M1", withAmount(1000), withDate("2024-04-02 09:00"), withMode(model.ModeCreditCard), withCard("4242")),
		tx("M2", withAmount(5)),
	)

	r := Inspect(txns, " M1 ")

	assert.Equal(t, "M1", r.MID)
	assert.Equal(t, 251, r.Matched)
	assert.Equal(t, 251, r.Summary.Count)
	require.Len(t, r.Rows, MainTableLimit)
	assert.Equal(t, 1000.0, r.Rows[0].AmountOr(0))
	require.Len(t, r.Monthly, 2)
	require.Len(t, r.Windows, 3)
	assert.Equal(t, Night, r.Windows[0].Window)
	assert.Equal(t, 250, r.Windows[0].Count)
	assert.Len(t, r.Windows[0].Rows, WindowTableLimit)
	assert.Equal(t, 1, r.Windows[1].Count)
	assert.Equal(t, []Ranked{{Key: "4242", Count: 1}}, r.Modes.CreditCards)
	assert.Equal(t, []Ranked{{Key: "v@upi", Count: 250}}, r.Modes.UPIHandles)

	empty := Inspect(txns, "nope")
	assert.Zero(t, empty.Matched)
	assert.Empty(t, empty.Rows)
}
