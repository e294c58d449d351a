package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/session"
	"github.com/Veraticus/midscope/internal/tui/themes"
)

// State represents which input currently owns the keyboard.
type State int

const (
	StateBrowse State = iota
	StateSearch
	StateOpen
)

// chrome is the number of terminal lines used around the table.
const chrome = 16

// Model holds the dashboard state. The displayed dataset is always a whole
// session.Session; loads finishing out of order are resolved by the loader.
type Model struct {
	session     session.Session
	loader      *session.Loader
	theme       themes.Theme
	keymap      KeyMap
	config      Config
	query       string
	pendingName string
	status      string
	tables      []tableView
	search      textinput.Model
	pathInput   textinput.Model
	table       table.Model
	spinner     spinner.Model
	help        help.Model
	report      analytics.Report
	pending     uint64
	active      int
	width       int
	height      int
	state       State
	initCmd     tea.Cmd
	quitting    bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	loader := cfg.Loader
	if loader == nil {
		loader = session.NewLoader()
	}

	search := textinput.New()
	search.Placeholder = "Enter MID"
	search.Prompt = "MID: "
	search.CharLimit = 64
	search.Width = 32
	search.ShowSuggestions = true

	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/transactions.csv"
	pathInput.Prompt = "File: "
	pathInput.Width = 60

	t := table.New(
		table.WithColumns(transactionColumns),
		table.WithHeight(10),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.TableHeader
	styles.Selected = cfg.Theme.Selected
	t.SetStyles(styles)

	m := Model{
		session:   session.Empty(),
		loader:    loader,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		config:    cfg,
		search:    search,
		pathInput: pathInput,
		table:     t,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		width:     cfg.Width,
		height:    cfg.Height,
		state:     StateBrowse,
	}
	m.refresh()
	m.resize()
	if cfg.Path != "" {
		m.initCmd = m.startLoad(cfg.Path)
	}
	return m
}

// Init starts loading the initial file, if any.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case sessionLoadedMsg:
		m.handleLoaded(msg.session)
		return m, nil

	case spinner.TickMsg:
		if !m.loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.state {
		case StateSearch:
			return m.updateSearch(msg)
		case StateOpen:
			return m.updateOpen(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.ClearScreen):
		return m, tea.ClearScreen

	case key.Matches(msg, m.keymap.Search):
		m.state = StateSearch
		m.search.SetValue(m.query)
		m.search.CursorEnd()
		m.table.Blur()
		return m, m.search.Focus()

	case key.Matches(msg, m.keymap.Open):
		m.state = StateOpen
		m.pathInput.Reset()
		m.table.Blur()
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keymap.NextTable):
		m.selectTable(m.active + 1)
		return m, nil

	case key.Matches(msg, m.keymap.PrevTable):
		m.selectTable(m.active - 1)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm), key.Matches(msg, m.keymap.Cancel):
		m.state = StateBrowse
		m.search.Blur()
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := strings.TrimSpace(m.search.Value()); q != m.query {
		m.query = q
		m.refresh()
	}
	return m, cmd
}

func (m Model) updateOpen(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Cancel):
		m.state = StateBrowse
		m.pathInput.Blur()
		m.table.Focus()
		return m, nil

	case key.Matches(msg, m.keymap.Confirm):
		path := m.pathInput.Value()
		m.state = StateBrowse
		m.pathInput.Blur()
		m.table.Focus()
		return m, m.startLoad(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// handleLoaded applies a finished load. Stale results are dropped by the
// loader; a failed load replaces the displayed data with its error.
func (m *Model) handleLoaded(next session.Session) {
	m.session = m.loader.Accept(m.session, next)
	// Only the newest ticket stops the spinner; an older load finishing
	// first leaves it running.
	if m.loading() && next.Generation == m.loader.Latest() {
		m.pending = 0
		m.pendingName = ""
	}
	if m.session.ID == next.ID && next.Err == nil {
		m.status = fmt.Sprintf("Loaded %s: %d of %d rows carry a MID", next.FileName, next.NormalizedCount(), next.RawCount)
	}
	m.search.SetSuggestions(m.session.UniqueMIDs())
	m.refresh()
}

func (m *Model) loading() bool {
	return m.pending != 0
}

// refresh recomputes the report for the current query and session.
func (m *Model) refresh() {
	m.report = analytics.InspectWith(m.session.View(), m.query, m.config.Report)
	m.tables = buildTables(m.report)
	m.selectTable(m.active)
}

func (m *Model) selectTable(i int) {
	n := len(m.tables)
	if n == 0 {
		return
	}
	m.active = ((i % n) + n) % n
	view := m.tables[m.active]

	// Rows must be cleared first: the table renders rows against the new
	// column count while SetColumns runs.
	m.table.SetRows(nil)
	m.table.SetColumns(view.columns)
	m.table.SetRows(view.rows)
	m.table.GotoTop()
}

func (m *Model) resize() {
	h := m.height - chrome
	if m.help.ShowAll {
		h -= 3
	}
	m.table.SetHeight(max(h, 3))
	m.table.SetWidth(max(m.width-2, 20))
	m.help.Width = m.width
}

// Query returns the MID currently searched for.
func (m Model) Query() string {
	return m.query
}

// Session returns the displayed session.
func (m Model) Session() session.Session {
	return m.session
}

// Report returns the report computed for the current query.
func (m Model) Report() analytics.Report {
	return m.report
}

func (m Model) fit(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(s)
}
