package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/export"
	"github.com/Veraticus/midscope/internal/model"
)

// tableView is one tab of the dashboard.
type tableView struct {
	title   string
	columns []table.Column
	rows    []table.Row
}

var transactionColumns = []table.Column{
	{Title: "Date", Width: 19},
	{Title: "Amount", Width: 12},
	{Title: "Settled", Width: 12},
	{Title: "Mode", Width: 12},
	{Title: "Card", Width: 6},
	{Title: "VPA", Width: 24},
	{Title: "Status", Width: 10},
}

// buildTables lays out every table of a report in tab order.
func buildTables(r analytics.Report) []tableView {
	views := []tableView{{
		title:   fmt.Sprintf("Transactions (%d)", len(r.Rows)),
		columns: transactionColumns,
		rows:    transactionRows(r.Rows),
	}}

	for _, w := range r.Windows {
		views = append(views, tableView{
			title:   fmt.Sprintf("%s: %d", w.Window, w.Count),
			columns: transactionColumns,
			rows:    transactionRows(w.Rows),
		})
	}

	views = append(views,
		tableView{
			title: "Monthly",
			columns: []table.Column{
				{Title: "Month", Width: 10},
				{Title: "Count", Width: 8},
				{Title: "Amount", Width: 16},
				{Title: "Settled", Width: 16},
			},
			rows: bucketRows(r.Monthly),
		},
		sliceView("Payment modes", "Mode", r.PaymentModes),
		rankedView("Credit cards", "Card", r.Modes.CreditCards),
		rankedView("Debit cards", "Card", r.Modes.DebitCards),
		rankedView("UPI handles", "VPA", r.Modes.UPIHandles),
		roundView(r.Rounds),
		sliceView("Status", "Status", r.Statuses),
		sliceView("Category", "Category", r.Categories),
		sliceView("Sub-category", "Sub-category", r.SubCategories),
		sliceView("Risk", "Risk category", r.Risk),
	)

	return views
}

func transactionRows(txns []model.Transaction) []table.Row {
	rows := make([]table.Row, 0, len(txns))
	for i := range txns {
		c := export.StringRow(&txns[i])
		rows = append(rows, table.Row{c[1], c[2], c[3], c[4], c[6], c[5], c[7]})
	}
	return rows
}

func bucketRows(buckets []analytics.Bucket) []table.Row {
	rows := make([]table.Row, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, table.Row{
			b.Period,
			strconv.Itoa(b.Count),
			b.TotalAmount.StringFixed(2),
			b.TotalSettled.StringFixed(2),
		})
	}
	return rows
}

func sliceView(title, label string, slices []analytics.Slice) tableView {
	rows := make([]table.Row, 0, len(slices))
	for _, s := range slices {
		rows = append(rows, table.Row{s.Name, strconv.Itoa(s.Value)})
	}
	return tableView{
		title:   title,
		columns: []table.Column{{Title: label, Width: 28}, {Title: "Count", Width: 8}},
		rows:    rows,
	}
}

func rankedView(title, label string, ranked []analytics.Ranked) tableView {
	rows := make([]table.Row, 0, len(ranked))
	for _, r := range ranked {
		rows = append(rows, table.Row{r.Key, strconv.Itoa(r.Count)})
	}
	return tableView{
		title:   title,
		columns: []table.Column{{Title: label, Width: 28}, {Title: "Count", Width: 8}},
		rows:    rows,
	}
}

func roundView(stats analytics.RoundStats) tableView {
	rows := make([]table.Row, 0, len(stats.TopRounds))
	for _, v := range stats.TopRounds {
		rows = append(rows, table.Row{strconv.FormatFloat(v.Amount, 'f', -1, 64), strconv.Itoa(v.Count)})
	}
	return tableView{
		title:   "Round amounts",
		columns: []table.Column{{Title: "Amount", Width: 16}, {Title: "Count", Width: 8}},
		rows:    rows,
	}
}
