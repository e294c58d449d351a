// Package analytics computes descriptive aggregates over normalized
// transactions. Every function is pure: inputs are never mutated and equal
// inputs produce equal outputs.
package analytics

import (
	"github.com/shopspring/decimal"
)

// Summary holds headline totals for a set of transactions.
type Summary struct {
	TotalAmount  decimal.Decimal
	AvgAmount    decimal.Decimal
	TotalSettled decimal.Decimal
	Count        int
}

// Bucket is one period of a time series.
type Bucket struct {
	TotalAmount  decimal.Decimal
	TotalSettled decimal.Decimal
	Period       string
	Count        int
}

// Slice is one label of a categorical breakdown.
type Slice struct {
	Name  string
	Value int
}

// Ranked is one row of a frequency table.
type Ranked struct {
	Key   string
	Count int
}

// RoundValue is a round amount and how often it occurs.
type RoundValue struct {
	Amount float64
	Count  int
}

// RoundStats describes how many amounts are round figures.
type RoundStats struct {
	TopRounds  []RoundValue
	Total      int
	RoundCount int
	RoundPct   float64
}
