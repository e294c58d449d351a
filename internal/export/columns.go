// Package export writes normalized transactions and MID reports to output
// artefacts: XLSX workbooks, SQLite files and Google Sheets.
package export

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/model"
)

// Columns is the canonical column order of exported transaction rows.
var Columns = []string{
	"MID",
	"Transaction_Date",
	"Amount",
	"Settled_Amount",
	"Payment_Mode",
	"Customer_VPA",
	"Card_Last4",
	"Status",
	"Merchant_name",
	"KYB_ID",
	"Category",
	"Sub_Category",
	"Entity_Type",
	"Risk_category",
	"Onboarding_date",
}

// DateTimeLayout formats timestamps in exported cells.
const DateTimeLayout = "2006-01-02 15:04:05"

// Row returns the cells of tx in Columns order. Absent values are "".
func Row(tx *model.Transaction) []any {
	return []any{
		tx.MID,
		formatTime(tx.TransactionDate),
		optionalFloat(tx.Amount),
		optionalFloat(tx.SettledAmount),
		tx.PaymentMode,
		tx.CustomerVPA,
		tx.CardLast4,
		tx.Status,
		tx.MerchantName,
		tx.KYBID,
		tx.Category,
		tx.SubCategory,
		tx.EntityType,
		tx.RiskCategory,
		formatTime(tx.OnboardingDate),
	}
}

// StringRow is Row with every cell rendered as text.
func StringRow(tx *model.Transaction) []string {
	cells := Row(tx)
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return out
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func optionalFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func roundPct(r analytics.RoundStats) float64 {
	return decimal.NewFromFloat(r.RoundPct).Round(2).InexactFloat64()
}
