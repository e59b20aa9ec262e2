// Package tui provides the interactive document viewer for skim.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/skim-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session is the open document session the viewer renders.
	Session driving.TreeSession
}

// NewPorts creates a new Ports aggregate with the given session.
func NewPorts(session driving.TreeSession) *Ports {
	return &Ports{Session: session}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
