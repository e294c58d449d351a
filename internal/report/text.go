// Package report renders MID reports for the terminal, as JSON and as PNG
// charts.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/cli"
	"github.com/Veraticus/midscope/internal/export"
	"github.com/Veraticus/midscope/internal/model"
)

// Formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for output formats other than text and json.
var ErrUnknownFormat = errors.New("unknown output format; use text or json")

// Write renders r in the named format.
func Write(w io.Writer, r analytics.Report, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatText:
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteText prints the summary box followed by every breakdown and table of r.
func WriteText(w io.Writer, r analytics.Report) error {
	p := &printer{w: w}

	p.line(cli.FormatTitle("MID " + r.MID))
	if r.Matched == 0 {
		p.line(cli.FormatWarning("No transactions match this MID."))
		return p.err
	}

	p.line(cli.RenderBox("Summary", strings.Join([]string{
		cli.FormatMetric("Transactions", strconv.Itoa(r.Summary.Count)),
		cli.FormatMetric("Total amount", r.Summary.TotalAmount.StringFixed(2)),
		cli.FormatMetric("Average amount", r.Summary.AvgAmount.StringFixed(2)),
		cli.FormatMetric("Total settled", r.Summary.TotalSettled.StringFixed(2)),
		cli.FormatMetric("Round amounts", fmt.Sprintf("%d of %d (%.1f%%)", r.Rounds.RoundCount, r.Rounds.Total, r.Rounds.RoundPct)),
	}, "\n")))

	p.section("Monthly trend")
	p.table([]string{"Month", "Count", "Amount", "Settled"}, bucketRows(r.Monthly))

	p.section("Payment modes")
	p.table([]string{"Mode", "Count"}, sliceRows(r.PaymentModes))
	p.section("Status")
	p.table([]string{"Status", "Count"}, sliceRows(r.Statuses))
	p.section("Category")
	p.table([]string{"Category", "Count"}, sliceRows(r.Categories))
	p.section("Sub-category")
	p.table([]string{"Sub-category", "Count"}, sliceRows(r.SubCategories))
	p.section("Risk category")
	p.table([]string{"Risk category", "Count"}, sliceRows(r.Risk))

	p.section("Top credit cards")
	p.table([]string{"Card last 4", "Count"}, rankedRows(r.Modes.CreditCards))
	p.section("Top debit cards")
	p.table([]string{"Card last 4", "Count"}, rankedRows(r.Modes.DebitCards))
	p.section("Top UPI handles")
	p.table([]string{"Customer VPA", "Count"}, rankedRows(r.Modes.UPIHandles))

	p.section("Top round amounts")
	p.table([]string{"Amount", "Count"}, roundRows(r.Rounds.TopRounds))

	for _, wt := range r.Windows {
		p.section(fmt.Sprintf("%s: %d transactions", wt.Window, wt.Count))
		p.table(transactionHeader(), transactionRows(wt.Rows))
	}

	p.section(fmt.Sprintf("Transactions (top %d by amount)", len(r.Rows)))
	p.table(transactionHeader(), transactionRows(r.Rows))

	return p.err
}

// WriteMIDs prints the busiest MIDs with their totals under the number of
// distinct MIDs.
func WriteMIDs(w io.Writer, totals []analytics.MIDTotal, unique int) error {
	p := &printer{w: w}
	p.line(cli.FormatTitle(fmt.Sprintf("%d unique MIDs", unique)))

	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.MID, strconv.Itoa(t.Count), t.TotalAmount.StringFixed(2)})
	}
	p.table([]string{"MID", "Transactions", "Amount"}, rows)
	return p.err
}

// WriteJSON encodes r as indented JSON.
func WriteJSON(w io.Writer, r analytics.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newJSONReport(r)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(s string) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, s)
}

func (p *printer) section(title string) {
	p.line("")
	p.line(cli.BoldStyle.Render(title))
}

func (p *printer) table(header []string, rows [][]string) {
	if p.err != nil {
		return
	}
	if len(rows) == 0 {
		p.line(cli.SubtleStyle.Render("(none)"))
		return
	}

	table := tablewriter.NewWriter(p.w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}

func bucketRows(buckets []analytics.Bucket) [][]string {
	rows := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []string{b.Period, strconv.Itoa(b.Count), b.TotalAmount.StringFixed(2), b.TotalSettled.StringFixed(2)})
	}
	return rows
}

func sliceRows(slices []analytics.Slice) [][]string {
	rows := make([][]string, 0, len(slices))
	for _, s := range slices {
		rows = append(rows, []string{s.Name, strconv.Itoa(s.Value)})
	}
	return rows
}

func rankedRows(ranked []analytics.Ranked) [][]string {
	rows := make([][]string, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, []string{r.Key, strconv.Itoa(r.Count)})
	}
	return rows
}

func roundRows(values []analytics.RoundValue) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		rows = append(rows, []string{strconv.FormatFloat(v.Amount, 'f', -1, 64), strconv.Itoa(v.Count)})
	}
	return rows
}

func transactionHeader() []string {
	return []string{"Date", "Amount", "Settled", "Mode", "Card", "VPA", "Status"}
}

func transactionRows(txns []model.Transaction) [][]string {
	rows := make([][]string, 0, len(txns))
	for i := range txns {
		cells := export.StringRow(&txns[i])
		// Columns: MID, date, amount, settled, mode, vpa, card, status.
		rows = append(rows, []string{cells[1], cells[2], cells[3], cells[4], cells[6], cells[5], cells[7]})
	}
	return rows
}
