// Package themes holds the color schemes of the dashboard.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	TableHeader   lipgloss.Style
	Selected      lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusInfo    lipgloss.Style
	Primary       lipgloss.Color
	Border        lipgloss.Color
	Muted         lipgloss.Color
}

func build(primary, foreground, muted, border, selectedFg, success, warning, errColor, info lipgloss.Color) Theme {
	return Theme{
		Primary: primary,
		Border:  border,
		Muted:   muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Normal: lipgloss.NewStyle().
			Foreground(foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(foreground),
		Faint: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			MarginRight(1),
		CardTitle: lipgloss.NewStyle().
			Foreground(muted),
		Tab: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(selectedFg).
			Background(primary).
			Padding(0, 1),
		TableHeader: lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(border).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(selectedFg).
			Background(primary),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(errColor).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(info).
			Bold(true),
	}
}

// Default is the default theme.
var Default = build(
	lipgloss.Color("#2563eb"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#fafafa"),
	lipgloss.Color("#10b981"),
	lipgloss.Color("#f59e0b"),
	lipgloss.Color("#ef4444"),
	lipgloss.Color("#3b82f6"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#cdd6f4"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#1e1e2e"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#89dceb"),
)

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
