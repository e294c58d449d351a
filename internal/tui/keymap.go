package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the dashboard bindings. Row movement is handled by the table
// itself; Up, Down, PageUp and PageDown exist so help can list them.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	NextTable key.Binding
	PrevTable key.Binding

	Search   key.Binding
	Open     key.Binding
	Complete key.Binding
	Confirm  key.Binding
	Cancel   key.Binding

	Help        key.Binding
	Quit        key.Binding
	ForceQuit   key.Binding
	ClearScreen key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        bind("↑/k", "up", "k", "up"),
		Down:      bind("↓/j", "down", "j", "down"),
		PageUp:    bind("PgUp", "page up", "pgup", "ctrl+b"),
		PageDown:  bind("PgDn", "page down", "pgdown", "ctrl+f"),
		NextTable: bind("Tab", "next table", "tab", "l", "right"),
		PrevTable: bind("Shift+Tab", "previous table", "shift+tab", "h", "left"),

		Search:   bind("/", "search MID", "/", "m"),
		Open:     bind("o", "open file", "o"),
		Complete: bind("Tab", "complete MID", "tab"),
		Confirm:  bind("Enter", "apply", "enter"),
		Cancel:   bind("Esc", "cancel", "esc"),

		Help:        bind("?", "help", "?"),
		Quit:        bind("q", "quit", "q"),
		ForceQuit:   bind("Ctrl+C", "force quit", "ctrl+c"),
		ClearScreen: bind("Ctrl+L", "clear screen", "ctrl+l"),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Open, k.NextTable, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.NextTable, k.PrevTable},
		{k.Search, k.Open},
		{k.Help, k.Quit, k.ForceQuit, k.ClearScreen},
	}
}

// inputHelp lists the bindings live while a text input has focus.
type inputHelp []key.Binding

func (h inputHelp) ShortHelp() []key.Binding  { return h }
func (h inputHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// forState returns the help entries for the input that owns the keyboard.
func (k KeyMap) forState(s State) help.KeyMap {
	switch s {
	case StateSearch:
		return inputHelp{k.Complete, k.Confirm, k.Cancel, k.ForceQuit}
	case StateOpen:
		return inputHelp{k.Confirm, k.Cancel, k.ForceQuit}
	default:
		return k
	}
}
