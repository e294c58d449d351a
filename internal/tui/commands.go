package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/midscope/internal/config"
	"github.com/Veraticus/midscope/internal/session"
)

const loadTimeout = 5 * time.Minute

// loadFile reads path in the background. The ticket is issued by the caller
// so that the model knows which generation it is waiting for.
func loadFile(loader *session.Loader, ticket session.Ticket, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		return sessionLoadedMsg{session: loader.Load(ctx, ticket, path)}
	}
}

// startLoad issues a ticket for path and returns the command that loads it.
func (m *Model) startLoad(path string) tea.Cmd {
	path = config.ExpandPath(strings.TrimSpace(path))
	if path == "" {
		return nil
	}

	ticket := m.loader.Begin(path)
	m.pending = ticket.Generation
	m.pendingName = ticket.FileName
	m.status = ""
	return tea.Batch(loadFile(m.loader, ticket, path), m.spinner.Tick)
}
