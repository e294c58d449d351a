package analytics

import (
	"strings"

	"github.com/Veraticus/midscope/internal/model"
)

// DefaultTopN is the row count of identifier frequency tables.
const DefaultTopN = 10

// ModeTops holds the most frequent payer identifiers per payment mode.
type ModeTops struct {
	CreditCards []Ranked
	DebitCards  []Ranked
	UPIHandles  []Ranked
}

// ModeIdentifiers ranks card last-4 digits for credit and debit card
// payments and customer VPAs for UPI payments.
func ModeIdentifiers(txns []model.Transaction, n int) ModeTops {
	return ModeTops{
		CreditCards: TopNWhere(txns, ModeIs(model.ModeCreditCard), model.FieldCardLast4, n),
		DebitCards:  TopNWhere(txns, ModeIs(model.ModeDebitCard), model.FieldCardLast4, n),
		UPIHandles:  TopNWhere(txns, ModeIs(model.ModeUPI), model.FieldCustomerVPA, n),
	}
}

// WindowTable is the latest transactions of one time-of-day window.
type WindowTable struct {
	Rows   []model.Transaction
	Window Window
	Count  int
}

// Report is every view of the dashboard for one MID.
type Report struct {
	Summary       Summary
	MID           string
	Daily         []Bucket
	Monthly       []Bucket
	PaymentModes  []Slice
	Statuses      []Slice
	Categories    []Slice
	SubCategories []Slice
	Risk          []Slice
	Windows       []WindowTable
	Rows          []model.Transaction
	Modes         ModeTops
	Rounds        RoundStats
	Matched       int
}

// Options tunes the size of report tables.
type Options struct {
	TopN      int
	TableRows int
}

// Inspect builds the report for mid with default table sizes.
func Inspect(txns []model.Transaction, mid string) Report {
	return InspectWith(txns, mid, Options{})
}

// InspectWith builds the report for mid. Zero option values fall back to
// DefaultTopN and MainTableLimit.
func InspectWith(txns []model.Transaction, mid string, opts Options) Report {
	if opts.TopN <= 0 {
		opts.TopN = DefaultTopN
	}
	if opts.TableRows <= 0 {
		opts.TableRows = MainTableLimit
	}
	windowRows := min(opts.TableRows, WindowTableLimit)

	matched := FilterByMID(txns, mid)

	r := Report{
		MID:           strings.TrimSpace(mid),
		Matched:       len(matched),
		Summary:       Summarize(matched),
		Daily:         ByDay(matched),
		Monthly:       ByMonth(matched),
		PaymentModes:  Breakdown(matched, model.FieldPaymentMode),
		Statuses:      Breakdown(matched, model.FieldStatus),
		Categories:    Breakdown(matched, model.FieldCategory),
		SubCategories: Breakdown(matched, model.FieldSubCategory),
		Risk:          Breakdown(matched, model.FieldRiskCategory),
		Rounds:        RoundFigures(matched),
		Modes:         ModeIdentifiers(matched, opts.TopN),
		Rows:          Limit(SortByAmount(matched), opts.TableRows),
	}

	for _, w := range Windows {
		in := InWindow(matched, w)
		r.Windows = append(r.Windows, WindowTable{
			Window: w,
			Count:  len(in),
			Rows:   Limit(SortByLatest(in), windowRows),
		})
	}

	return r
}
