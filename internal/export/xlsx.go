package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/model"
)

// Sheet names of exported workbooks.
const (
	TransactionsSheet = "Transactions"
	SummarySheet      = "Summary"
)

// WriteXLSX writes a workbook with one row per transaction and a summary
// sheet holding totals, round-figure statistics and monthly buckets.
func WriteXLSX(w io.Writer, txns []model.Transaction) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), TransactionsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTransactions(f, txns); err != nil {
		return err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeSummary(f, txns); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, txns []model.Transaction) error {
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := setRow(f, TransactionsSheet, 1, header); err != nil {
		return err
	}

	for i := range txns {
		if err := setRow(f, TransactionsSheet, i+2, Row(&txns[i])); err != nil {
			return err
		}
	}

	if err := f.SetPanes(TransactionsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, txns []model.Transaction) error {
	summary := analytics.Summarize(txns)
	rounds := analytics.RoundFigures(txns)

	rows := [][]any{
		{"Metric", "Value"},
		{"Transactions", summary.Count},
		{"Unique MIDs", len(analytics.UniqueMIDs(txns))},
		{"Total amount", summary.TotalAmount.InexactFloat64()},
		{"Average amount", summary.AvgAmount.Round(2).InexactFloat64()},
		{"Total settled", summary.TotalSettled.InexactFloat64()},
		{"Round amounts", rounds.RoundCount},
		{"Round amount %", roundPct(rounds)},
		{},
		{"Month", "Count", "Total amount", "Total settled"},
	}
	for _, b := range analytics.ByMonth(txns) {
		rows = append(rows, []any{b.Period, b.Count, b.TotalAmount.InexactFloat64(), b.TotalSettled.InexactFloat64()})
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}
