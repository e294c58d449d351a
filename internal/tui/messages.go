package tui

import "github.com/Veraticus/midscope/internal/session"

// sessionLoadedMsg carries a finished load, successful or not.
type sessionLoadedMsg struct {
	session session.Session
}
