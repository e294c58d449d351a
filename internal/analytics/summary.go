package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/midscope/internal/model"
)

// Summarize totals amounts and settled amounts. Absent values count as zero
// and the average is zero for an empty input.
func Summarize(txns []model.Transaction) Summary {
	total := decimal.Zero
	settled := decimal.Zero

	for i := range txns {
		if txns[i].Amount != nil {
			total = total.Add(decimal.NewFromFloat(*txns[i].Amount))
		}
		if txns[i].SettledAmount != nil {
			settled = settled.Add(decimal.NewFromFloat(*txns[i].SettledAmount))
		}
	}

	avg := decimal.Zero
	if len(txns) > 0 {
		avg = total.Div(decimal.NewFromInt(int64(len(txns))))
	}

	return Summary{
		Count:        len(txns),
		TotalAmount:  total,
		AvgAmount:    avg,
		TotalSettled: settled,
	}
}
