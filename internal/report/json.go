package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/model"
)

type jsonSummary struct {
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AvgAmount    decimal.Decimal `json:"avg_amount"`
	TotalSettled decimal.Decimal `json:"total_settled"`
	Count        int             `json:"count"`
}

type jsonBucket struct {
	Period       string          `json:"period"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalSettled decimal.Decimal `json:"total_settled"`
	Count        int             `json:"count"`
}

type jsonCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type jsonRounds struct {
	Top        []jsonRound `json:"top"`
	Total      int         `json:"total"`
	RoundCount int         `json:"round_count"`
	RoundPct   float64     `json:"round_pct"`
}

type jsonRound struct {
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type jsonTransaction struct {
	Date          *time.Time `json:"transaction_date,omitempty"`
	Amount        *float64   `json:"amount,omitempty"`
	SettledAmount *float64   `json:"settled_amount,omitempty"`
	PaymentMode   string     `json:"payment_mode,omitempty"`
	CardLast4     string     `json:"card_last4,omitempty"`
	CustomerVPA   string     `json:"customer_vpa,omitempty"`
	Status        string     `json:"status,omitempty"`
}

type jsonWindow struct {
	Window string            `json:"window"`
	Rows   []jsonTransaction `json:"rows"`
	Count  int               `json:"count"`
}

type jsonReport struct {
	MID           string            `json:"mid"`
	Summary       jsonSummary       `json:"summary"`
	Daily         []jsonBucket      `json:"daily"`
	Monthly       []jsonBucket      `json:"monthly"`
	PaymentModes  []jsonCount       `json:"payment_modes"`
	Statuses      []jsonCount       `json:"statuses"`
	Categories    []jsonCount       `json:"categories"`
	SubCategories []jsonCount       `json:"sub_categories"`
	Risk          []jsonCount       `json:"risk_categories"`
	CreditCards   []jsonCount       `json:"top_credit_cards"`
	DebitCards    []jsonCount       `json:"top_debit_cards"`
	UPIHandles    []jsonCount       `json:"top_upi_handles"`
	Rounds        jsonRounds        `json:"round_figures"`
	Windows       []jsonWindow      `json:"time_windows"`
	Rows          []jsonTransaction `json:"transactions"`
	Matched       int               `json:"matched"`
}

func newJSONReport(r analytics.Report) jsonReport {
	out := jsonReport{
		MID:     r.MID,
		Matched: r.Matched,
		Summary: jsonSummary{
			Count:        r.Summary.Count,
			TotalAmount:  r.Summary.TotalAmount,
			AvgAmount:    r.Summary.AvgAmount.Round(2),
			TotalSettled: r.Summary.TotalSettled,
		},
		Daily:         jsonBuckets(r.Daily),
		Monthly:       jsonBuckets(r.Monthly),
		PaymentModes:  jsonSlices(r.PaymentModes),
		Statuses:      jsonSlices(r.Statuses),
		Categories:    jsonSlices(r.Categories),
		SubCategories: jsonSlices(r.SubCategories),
		Risk:          jsonSlices(r.Risk),
		CreditCards:   jsonRanked(r.Modes.CreditCards),
		DebitCards:    jsonRanked(r.Modes.DebitCards),
		UPIHandles:    jsonRanked(r.Modes.UPIHandles),
		Rounds: jsonRounds{
			Total:      r.Rounds.Total,
			RoundCount: r.Rounds.RoundCount,
			RoundPct:   r.Rounds.RoundPct,
			Top:        make([]jsonRound, 0, len(r.Rounds.TopRounds)),
		},
		Windows: make([]jsonWindow, 0, len(r.Windows)),
		Rows:    jsonTransactions(r.Rows),
	}
	for _, v := range r.Rounds.TopRounds {
		out.Rounds.Top = append(out.Rounds.Top, jsonRound{Amount: v.Amount, Count: v.Count})
	}
	for _, w := range r.Windows {
		out.Windows = append(out.Windows, jsonWindow{Window: w.Window.String(), Count: w.Count, Rows: jsonTransactions(w.Rows)})
	}
	return out
}

func jsonBuckets(buckets []analytics.Bucket) []jsonBucket {
	out := make([]jsonBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, jsonBucket{Period: b.Period, Count: b.Count, TotalAmount: b.TotalAmount, TotalSettled: b.TotalSettled})
	}
	return out
}

func jsonSlices(slices []analytics.Slice) []jsonCount {
	out := make([]jsonCount, 0, len(slices))
	for _, s := range slices {
		out = append(out, jsonCount{Name: s.Name, Count: s.Value})
	}
	return out
}

func jsonRanked(ranked []analytics.Ranked) []jsonCount {
	out := make([]jsonCount, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, jsonCount{Name: r.Key, Count: r.Count})
	}
	return out
}

func jsonTransactions(txns []model.Transaction) []jsonTransaction {
	out := make([]jsonTransaction, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		out = append(out, jsonTransaction{
			Date:          t.TransactionDate,
			Amount:        t.Amount,
			SettledAmount: t.SettledAmount,
			PaymentMode:   t.PaymentMode,
			CardLast4:     t.CardLast4,
			CustomerVPA:   t.CustomerVPA,
			Status:        t.Status,
		})
	}
	return out
}
