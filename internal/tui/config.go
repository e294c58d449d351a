package tui

import (
	"github.com/Veraticus/midscope/internal/analytics"
	"github.com/Veraticus/midscope/internal/session"
	"github.com/Veraticus/midscope/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Loader  *session.Loader
	Theme   themes.Theme
	Path    string
	Report  analytics.Options
	Width   int
	Height  int
	AltMode bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:   themes.Default,
		Width:   120,
		Height:  40,
		AltMode: true,
	}
}

// WithLoader sets the loader used to read files.
func WithLoader(l *session.Loader) Option {
	return func(c *Config) {
		c.Loader = l
	}
}

// WithPath loads path as soon as the dashboard starts.
func WithPath(path string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

// WithTheme sets the color theme.
func WithTheme(t themes.Theme) Option {
	return func(c *Config) {
		c.Theme = t
	}
}

// WithReportOptions sets the report table sizes.
func WithReportOptions(o analytics.Options) Option {
	return func(c *Config) {
		c.Report = o
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltMode = enabled
	}
}
