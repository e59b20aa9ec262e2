// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/skim-cli/internal/core/ports/driving"
)

// SessionEvent wraps an asynchronous session notification: a completed
// search, a loaded batch, or a reclamation pass. The UI re-reads
// session state when one arrives.
type SessionEvent struct {
	Event driving.SessionEvent
}

// SessionClosed signals the session's event channel was closed.
type SessionClosed struct{}

// DocumentReloaded carries a replacement session built from a changed
// file on disk. Session is nil when the reload failed.
type DocumentReloaded struct {
	Session driving.TreeSession
	Err     error
}

// ValueCopied signals a node value was placed on the clipboard.
type ValueCopied struct {
	Text string
}

// StatusExpired clears a transient status bar message.
type StatusExpired struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewBrowser is the document tree browser.
	ViewBrowser ViewType = iota
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewBrowser:
		return "browser"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}
