package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/midscope/internal/model"
)

func repeat(n int, t model.Transaction) []model.Transaction {
	out := make([]model.Transaction, n)
	for i := range out {
		out[i] = t
	}
	return out
}

func TestTopN_TruncationAndOrdering(t *testing.T) {
	var txns []model.Transaction
	txns = append(txns, repeat(3, tx("B"))...)
	txns = append(txns, repeat(1, tx("D"))...)
	txns = append(txns, repeat(5, tx("A"))...)
	txns = append(txns, repeat(3, tx("C"))...)

	top := TopN(txns, model.FieldMID, 2)

	require.Len(t, top, 2)
	assert.Equal(t, Ranked{Key: "A", Count: 5}, top[0])
	assert.Equal(t, 3, top[1].Count)
	assert.Equal(t, "B", top[1].Key, "ties keep first-encounter order")

	all := TopN(txns, model.FieldMID, 10)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"A", "B", "C", "D"}, keys(all))
}

func TestTopN_TrimsAndSkipsEmpty(t *testing.T) {
	txns := []model.Transaction{
		tx("A", withVPA(" a@upi ")),
		tx("A", withVPA("a@upi")),
		tx("A", withVPA("   ")),
		tx("A"),
	}

	top := TopN(txns, model.FieldCustomerVPA, 5)

	assert.Equal(t, []Ranked{{Key: "a@upi", Count: 2}}, top)
}

func TestTopN_NonPositive(t *testing.T) {
	txns := []model.Transaction{tx("A")}

	assert.Empty(t, TopN(txns, model.FieldMID, 0))
	assert.Empty(t, TopN(txns, model.FieldMID, -3))
	assert.NotNil(t, TopN(nil, model.FieldMID, 3))
}

func TestTopNWhere(t *testing.T) {
	txns := []model.Transaction{
		tx("A", withMode(model.ModeCreditCard), withCard("1111")),
		tx("A", withMode(model.ModeDebitCard), withCard("2222")),
		tx("A", withMode(model.ModeCreditCard), withCard("1111")),
		tx("A", withMode(model.ModeCreditCard), withCard("3333")),
	}

	top := TopNWhere(txns, ModeIs(model.ModeCreditCard), model.FieldCardLast4, 10)

	assert.Equal(t, []Ranked{{Key: "1111", Count: 2}, {Key: "3333", Count: 1}}, top)
}

func TestBreakdown(t *testing.T) {
	txns := []model.Transaction{
		tx("A", withMode("UPI")),
		tx("A"),
		tx("A", withMode("CREDIT_CARD")),
		tx("A", withMode("UPI")),
	}

	got := Breakdown(txns, model.FieldPaymentMode)

	assert.Equal(t, []Slice{
		{Name: "UPI", Value: 2},
		{Name: UnknownLabel, Value: 1},
		{Name: "CREDIT_CARD", Value: 1},
	}, got)
	assert.Empty(t, Breakdown(nil, model.FieldStatus))
}

func TestModeIdentifiers(t *testing.T) {
	txns := []model.Transaction{
		tx("A", withMode(model.ModeUPI), withVPA("p@upi")),
		tx("A", withMode(model.ModeUPI), withVPA("p@upi")),
		tx("A", withMode(model.ModeUPI), withCard("9999")),
		tx("A", withMode(model.ModeDebitCard), withCard("2222")),
		tx("A", withMode("NETBANKING"), withCard("5555")),
	}

	tops := ModeIdentifiers(txns, 10)

	assert.Empty(t, tops.CreditCards)
	assert.Equal(t, []Ranked{{Key: "2222", Count: 1}}, tops.DebitCards)
	assert.Equal(t, []Ranked{{Key: "p@upi", Count: 2}}, tops.UPIHandles)
}

func keys(r []Ranked) []string {
	out := make([]string, len(r))
	for i := range r {
		out[i] = r[i].Key
	}
	return out
}
