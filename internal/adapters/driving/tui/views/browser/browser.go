// Package browser provides the document tree browser view for the TUI.
// It renders the lazily materialised tree as a flat list of visible
// rows, one per expanded node or continuation placeholder.
package browser

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/ports/driving"
)

// row is one visible line: either a node or its parent's continuation
// placeholder. Rendering reads only the snapshot; the node and
// continuation pointers are opaque handles passed back into session
// calls, which serialise all tree access internally.
type row struct {
	node  *domain.Node
	cont  *domain.Continuation
	view  driving.NodeView
	depth int
}

// View is the tree browser view.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	session driving.TreeSession
	input   *input.SearchInput

	rows         []row
	cursor       int
	scrollOffset int
	searching    bool
	width        int
	height       int
	ready        bool
	err          error
}

// NewView creates a new browser view over the given session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.TreeSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:  s,
		keys:    km,
		session: session,
		input:   input.NewSearchInput(s),
	}
	v.Rebuild()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSession swaps in a replacement session, resetting cursor and
// search state. Used on live reload.
func (v *View) SetSession(session driving.TreeSession) {
	v.session = session
	v.cursor = 0
	v.scrollOffset = 0
	v.searching = false
	v.input.Reset()
	v.err = nil
	v.Rebuild()
}

// Session returns the session the view is rendering.
func (v *View) Session() driving.TreeSession {
	return v.session
}

// Rebuild reflattens the visible tree into rows. Called after any
// mutation that can change which nodes are visible.
func (v *View) Rebuild() {
	v.rows = v.rows[:0]
	if v.session != nil {
		v.flatten(v.session.Root(), 0)
	}
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.adjustScroll()
	v.triggerVisibleContinuations()
}

// flatten appends the node and, when expanded, its materialised
// children. Reading children here is what drives the initial batch for
// newly expanded containers. Each row snapshots its render state so
// later repaints never touch live nodes a background sweep may be
// tearing down.
func (v *View) flatten(n *domain.Node, depth int) {
	nv := v.session.Describe(n)
	v.rows = append(v.rows, row{node: n, view: nv, depth: depth})
	if !nv.Expanded || !nv.HasChildren {
		return
	}
	for _, c := range v.session.Children(n) {
		switch {
		case c.Node != nil:
			v.flatten(c.Node, depth+1)
		case c.Continuation != nil:
			// The continuation row snapshots its parent for the
			// remaining count.
			v.rows = append(v.rows, row{cont: c.Continuation, view: v.session.Describe(n), depth: depth + 1})
		}
	}
}

// triggerVisibleContinuations schedules loading for every continuation
// placeholder currently on screen.
func (v *View) triggerVisibleContinuations() {
	end := v.scrollOffset + v.visibleRowCount()
	for i := v.scrollOffset; i < len(v.rows) && i < end; i++ {
		if v.rows[i].cont != nil {
			v.session.TriggerContinuation(v.rows[i].cont)
		}
	}
}

// Update handles messages for the browser view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		v.input.SetWidth(msg.Width)
		v.adjustScroll()
		return v, nil

	case tea.KeyMsg:
		if v.searching {
			return v.handleSearchKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.SessionEvent:
		v.Rebuild()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleSearchKeyMsg handles key presses while the search input is
// focused. Every edit reaches the session immediately; the session's
// own debounce decides when the search actually runs.
func (v *View) handleSearchKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.searching = false
		v.input.Blur()
		v.input.Reset()
		v.session.SetQuery("")
		v.Rebuild()
		return v, nil
	case tea.KeyEnter:
		v.searching = false
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.session.SetQuery(v.input.Value())
	return v, cmd
}

// handleKeyMsg handles key presses in browse mode.
//
//nolint:gocyclo // flat keybinding dispatch
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keys.Up):
		v.moveCursor(-1)

	case keymap.Matches(keyStr, v.keys.Down):
		v.moveCursor(1)

	case keymap.Matches(keyStr, v.keys.PageUp):
		v.moveCursor(-v.visibleRowCount())

	case keymap.Matches(keyStr, v.keys.PageDown):
		v.moveCursor(v.visibleRowCount())

	case keymap.Matches(keyStr, v.keys.Top):
		v.cursor = 0
		v.adjustScroll()
		v.triggerVisibleContinuations()

	case keymap.Matches(keyStr, v.keys.Bottom):
		v.cursor = len(v.rows) - 1
		v.adjustScroll()
		v.triggerVisibleContinuations()

	case keymap.Matches(keyStr, v.keys.Toggle):
		v.toggleCursorRow()

	case keymap.Matches(keyStr, v.keys.Collapse):
		v.collapseCursorRow()

	case keymap.Matches(keyStr, v.keys.Expand):
		if r := v.cursorRow(); r != nil && r.node != nil && r.view.HasChildren && !r.view.Expanded {
			v.session.ToggleExpanded(r.node)
			v.Rebuild()
		}

	case keymap.Matches(keyStr, v.keys.Search):
		v.searching = true
		return v, v.input.Focus()

	case keymap.Matches(keyStr, v.keys.NextMatch):
		v.jumpToMatch(v.session.NextResult())

	case keymap.Matches(keyStr, v.keys.PrevMatch):
		v.jumpToMatch(v.session.PreviousResult())

	case keymap.Matches(keyStr, v.keys.Copy):
		return v, v.copyCursorValue()

	case keymap.Matches(keyStr, v.keys.Back):
		if v.session.Query() != "" {
			v.input.Reset()
			v.session.SetQuery("")
			v.Rebuild()
		}
	}

	return v, nil
}

// toggleCursorRow expands or collapses the selected container, or
// triggers the selected continuation.
func (v *View) toggleCursorRow() {
	r := v.cursorRow()
	if r == nil {
		return
	}
	if r.cont != nil {
		v.session.TriggerContinuation(r.cont)
		return
	}
	if r.view.HasChildren {
		v.session.ToggleExpanded(r.node)
		v.Rebuild()
	}
}

// collapseCursorRow collapses the selected container, or jumps to the
// parent when the selection is a leaf or already collapsed.
func (v *View) collapseCursorRow() {
	r := v.cursorRow()
	if r == nil || r.node == nil {
		return
	}
	if r.view.Expanded && r.view.HasChildren {
		v.session.ToggleExpanded(r.node)
		v.Rebuild()
		return
	}
	// Parent back-references are immutable after construction.
	if parent := r.node.Parent(); parent != nil {
		v.moveCursorTo(parent)
	}
}

// jumpToMatch moves the cursor onto a match returned by the session.
// The session has already expanded the ancestor path.
func (v *View) jumpToMatch(n *domain.Node) {
	if n == nil {
		return
	}
	v.Rebuild()
	v.moveCursorTo(n)
}

// copyCursorValue puts the selected node's copyable text on the system
// clipboard, falling back to a status message when no clipboard is
// available.
func (v *View) copyCursorValue() tea.Cmd {
	r := v.cursorRow()
	if r == nil || r.node == nil {
		return nil
	}
	text := v.session.CopyValue(r.node)
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("clipboard unavailable: %w", err)}
		}
		return messages.ValueCopied{Text: text}
	}
}

// moveCursor moves the selection by delta rows, clamped to the list.
func (v *View) moveCursor(delta int) {
	v.cursor += delta
	if v.cursor < 0 {
		v.cursor = 0
	}
	if v.cursor >= len(v.rows) {
		v.cursor = len(v.rows) - 1
	}
	v.adjustScroll()
	v.triggerVisibleContinuations()
}

// moveCursorTo selects the row holding the given node, if visible.
func (v *View) moveCursorTo(n *domain.Node) {
	for i := range v.rows {
		if v.rows[i].node != nil && v.rows[i].view.ID == n.ID() {
			v.cursor = i
			v.adjustScroll()
			v.triggerVisibleContinuations()
			return
		}
	}
}

func (v *View) cursorRow() *row {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return &v.rows[v.cursor]
}

// adjustScroll keeps the cursor inside the viewport.
func (v *View) adjustScroll() {
	visible := v.visibleRowCount()
	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	} else if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// visibleRowCount returns how many tree rows fit on screen.
func (v *View) visibleRowCount() int {
	// Reserve lines for the search input and scroll indicator.
	reserved := 4
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the browser.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	if v.searching || v.session.Query() != "" {
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	}

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	visible := v.visibleRowCount()
	for i := v.scrollOffset; i < len(v.rows) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderRow(i))
		b.WriteString("\n")
	}

	if len(v.rows) > visible {
		b.WriteString("\n")
		last := v.scrollOffset + visible
		if last > len(v.rows) {
			last = len(v.rows)
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, last, len(v.rows))))
	}

	return b.String()
}

// renderRow renders a single visible line from its snapshot.
func (v *View) renderRow(i int) string {
	r := v.rows[i]
	indent := strings.Repeat("  ", r.depth)

	if r.cont != nil {
		line := fmt.Sprintf("%s… %d more", indent, r.view.Remaining)
		if i == v.cursor {
			return v.styles.Selected.Render(line)
		}
		return v.styles.Continuation.Render(line)
	}

	nv := r.view
	expander := "  "
	if nv.HasChildren {
		if nv.Expanded {
			expander = "▾ "
		} else {
			expander = "▸ "
		}
	}

	if i == v.cursor {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s%s: %s",
			indent, expander, nv.Key, nv.Summary))
	}

	key := v.styles.Key.Render(nv.Key)
	if nv.SearchResult {
		key = v.styles.Match.Render(nv.Key)
	}

	return fmt.Sprintf("%s%s%s: %s",
		indent, v.styles.Muted.Render(expander), key, v.renderValue(nv))
}

// renderValue styles the snapshot's display text by kind.
func (v *View) renderValue(nv driving.NodeView) string {
	if nv.ValueCleared {
		return v.styles.Muted.Render(nv.Summary)
	}
	switch nv.Kind {
	case domain.KindString:
		return v.styles.ValueString.Render(nv.Summary)
	case domain.KindNumber:
		return v.styles.ValueNumber.Render(nv.Summary)
	case domain.KindBool, domain.KindNull:
		return v.styles.ValueKeyword.Render(nv.Summary)
	case domain.KindObject, domain.KindArray:
		return v.styles.Summary.Render(nv.Summary)
	default:
		return v.styles.Normal.Render(nv.Summary)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.SetWidth(width)
}

// Rows returns the number of visible rows.
func (v *View) Rows() int {
	return len(v.rows)
}

// Cursor returns the cursor index.
func (v *View) Cursor() int {
	return v.cursor
}

// CursorNode returns the selected node, nil on a continuation row.
func (v *View) CursorNode() *domain.Node {
	if r := v.cursorRow(); r != nil {
		return r.node
	}
	return nil
}

// Searching reports whether the search input is focused.
func (v *View) Searching() bool {
	return v.searching
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
