package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the dashboard and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Restore the terminal even if the program exits abnormally.
	cleanupTerminal := func() {
		_, _ = os.Stdout.Write([]byte("\033[?25h")) // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))    // Reset colors
	}
	defer cleanupTerminal()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltMode {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(cfg), programOpts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("dashboard error: %w", err)
	}

	return nil
}
