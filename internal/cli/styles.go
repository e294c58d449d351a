// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Level is the severity of a one-line status message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

type levelStyle struct {
	icon  string
	color lipgloss.Color
}

var levels = map[Level]levelStyle{
	LevelInfo:    {icon: "ℹ️", color: lipgloss.Color("#60A5FA")},
	LevelSuccess: {icon: "✓", color: lipgloss.Color("#10B981")},
	LevelWarning: {icon: "⚠️", color: lipgloss.Color("#F59E0B")},
	LevelError:   {icon: "✗", color: lipgloss.Color("#EF4444")},
}

// Icon returns the glyph printed before messages of level l.
func (l Level) Icon() string {
	return levels[l].icon
}

// Style returns the foreground style for level l.
func (l Level) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(levels[l].color)
}

const (
	accent = lipgloss.Color("#2563EB")
	subtle = lipgloss.Color("#6B7280")
	frame  = lipgloss.Color("#334155")

	reportIcon = "🔎"
)

var (
	// SubtleStyle renders placeholders such as "(none)".
	SubtleStyle = lipgloss.NewStyle().Foreground(subtle)
	// BoldStyle renders section headings in text reports.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(1, 2)
	metricLabel = lipgloss.NewStyle().Foreground(subtle).Width(18)
)

// Format renders message prefixed with the icon of level.
func Format(level Level, message string) string {
	return level.Style().Render(level.Icon() + " " + message)
}

func FormatSuccess(message string) string { return Format(LevelSuccess, message) }
func FormatError(message string) string   { return Format(LevelError, message) }
func FormatWarning(message string) string { return Format(LevelWarning, message) }
func FormatInfo(message string) string    { return Format(LevelInfo, message) }

// FormatTitle renders the heading of a merchant report.
func FormatTitle(title string) string {
	return titleStyle.Render(reportIcon + " " + title)
}

// FormatMetric renders one "label value" line of a summary box.
func FormatMetric(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricLabel.Render(label),
		BoldStyle.Render(value))
}

// RenderBox draws content inside a rounded frame headed by title.
func RenderBox(title, content string) string {
	heading := titleStyle.UnsetMargins().Render(title)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, heading, content))
}
