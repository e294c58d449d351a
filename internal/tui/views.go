package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/midscope/internal/source"
)

const appTitle = "Merchant Transaction Visualizer"

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderHeader(),
		m.renderStats(),
		m.renderInput(),
		m.renderBody(),
		m.renderFooter(),
	}

	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(appTitle)
	if m.loading() {
		title += "  " + m.spinner.View() + m.theme.Subtitle.Render(" Loading "+m.pendingName+"...")
	}
	return m.fit(title)
}

func (m Model) renderStats() string {
	s := m.session
	file := s.FileName
	if file == "" {
		file = "none"
	}
	parts := []string{
		m.theme.Subtitle.Render("File: ") + m.theme.Bold.Render(file),
		m.theme.Subtitle.Render("Rows parsed: ") + m.theme.Bold.Render(fmt.Sprint(s.RawCount)),
		m.theme.Subtitle.Render("Rows with MID: ") + m.theme.Bold.Render(fmt.Sprint(s.NormalizedCount())),
		m.theme.Subtitle.Render("Unique MIDs: ") + m.theme.Bold.Render(fmt.Sprint(len(s.UniqueMIDs()))),
	}
	return m.fit(strings.Join(parts, "   "))
}

func (m Model) renderInput() string {
	switch m.state {
	case StateOpen:
		return m.fit(m.pathInput.View())
	case StateSearch:
		return m.fit(m.search.View())
	default:
		q := m.query
		if q == "" {
			return m.theme.Faint.Render("Press / to search for a MID.")
		}
		return m.theme.Subtitle.Render("MID: ") + m.theme.Bold.Render(q)
	}
}

func (m Model) renderBody() string {
	s := m.session
	switch {
	case s.Err != nil:
		return m.theme.StatusError.Render("Error: ") + m.theme.Normal.Render(s.Err.Error())
	case !s.Loaded():
		return m.theme.Faint.Render(fmt.Sprintf("Press o to open a %s file.", acceptedList()))
	case m.query == "":
		return m.theme.Faint.Render("Enter a MID to inspect its transactions.")
	case m.report.Matched == 0:
		return m.theme.StatusWarning.Render("No rows found for this MID.")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderCards(),
		m.renderTabs(),
		m.table.View(),
	)
}

func (m Model) renderCards() string {
	r := m.report
	card := func(label, value string) string {
		return m.theme.Card.Render(m.theme.CardTitle.Render(label) + "\n" + m.theme.Bold.Render(value))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Transactions", fmt.Sprint(r.Summary.Count)),
		card("Total amount", r.Summary.TotalAmount.StringFixed(2)),
		card("Average amount", r.Summary.AvgAmount.StringFixed(2)),
		card("Total settled", r.Summary.TotalSettled.StringFixed(2)),
		card("Round amounts", fmt.Sprintf("%d (%.1f%%)", r.Rounds.RoundCount, r.Rounds.RoundPct)),
	)
}

func (m Model) renderTabs() string {
	if len(m.tables) == 0 {
		return ""
	}

	// Only the active tab and its neighbours fit on narrow terminals.
	tabs := make([]string, 0, len(m.tables))
	for i, t := range m.tables {
		if i == m.active {
			tabs = append(tabs, m.theme.ActiveTab.Render(t.title))
			continue
		}
		tabs = append(tabs, m.theme.Tab.Render(t.title))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.width > 0 && lipgloss.Width(line) > m.width {
		prev := m.tables[(m.active+len(m.tables)-1)%len(m.tables)].title
		next := m.tables[(m.active+1)%len(m.tables)].title
		line = lipgloss.JoinHorizontal(lipgloss.Top,
			m.theme.Tab.Render("‹ "+prev),
			m.theme.ActiveTab.Render(m.tables[m.active].title),
			m.theme.Tab.Render(next+" ›"),
		)
	}

	rows := ""
	if len(m.tables[m.active].rows) == 0 {
		rows = "\n" + m.theme.Faint.Render("(none)")
	}
	return m.fit(line) + rows
}

func (m Model) renderFooter() string {
	var b strings.Builder
	if m.status != "" {
		b.WriteString(m.theme.StatusInfo.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keymap.forState(m.state)))
	return b.String()
}

func acceptedList() string {
	exts := make([]string, 0, len(source.Accepted))
	for _, e := range source.Accepted {
		exts = append(exts, strings.ToUpper(strings.TrimPrefix(e, ".")))
	}
	return strings.Join(exts, "/")
}
