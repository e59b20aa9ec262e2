// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateBrowsing  State = "browsing"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays the open document, residency counters, and keybinding
// hints.
type Bar struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	state      State
	message    string
	fileName   string
	fileSize   int64
	nodeCount  int
	matchCount int
	matchIndex int
	width      int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateBrowsing,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the document and counter segment.
func (s *Bar) renderLeft() string {
	if s.state == StateError && s.message != "" {
		return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}

	parts := make([]string, 0, 3)
	if s.fileName != "" {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.fileName, humanize.Bytes(uint64(s.fileSize))))
	}
	if s.nodeCount > 0 {
		parts = append(parts, fmt.Sprintf("%s nodes", humanize.Comma(int64(s.nodeCount))))
	}
	if s.matchCount > 0 {
		if s.matchIndex > 0 {
			parts = append(parts, fmt.Sprintf("match %d/%d", s.matchIndex, s.matchCount))
		} else {
			parts = append(parts, fmt.Sprintf("%d matches", s.matchCount))
		}
	} else if s.state == StateSearching {
		parts = append(parts, "no matches")
	}

	return s.styles.Normal.Render(strings.Join(parts, "  |  "))
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateSearching {
		bindings = s.keymap.SearchHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a transient message that replaces the counters.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the displayed file name and size.
func (s *Bar) SetDocument(name string, size int64) {
	s.fileName = name
	s.fileSize = size
}

// SetNodeCount sets the materialised node counter.
func (s *Bar) SetNodeCount(count int) {
	s.nodeCount = count
}

// SetMatches sets the match counter. index is 1-based; 0 means no
// current selection.
func (s *Bar) SetMatches(count, index int) {
	s.matchCount = count
	s.matchIndex = index
}

// MatchCount returns the current match count.
func (s *Bar) MatchCount() int {
	return s.matchCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateBrowsing
	s.message = ""
	s.matchCount = 0
	s.matchIndex = 0
}
