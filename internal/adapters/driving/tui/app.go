package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/views/browser"
	"github.com/custodia-labs/skim-cli/internal/core/ports/driving"
)

// statusFlashDuration is how long transient status messages stay up.
const statusFlashDuration = 2 * time.Second

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// session is the open document session. Swapped on live reload.
	session driving.TreeSession

	// styles holds the TUI styles.
	styles *styles.Styles

	// keys holds the keybindings.
	keys *keymap.KeyMap

	// browserView is the document tree browser.
	browserView *browser.View

	// statusBar is the bottom status line.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:       ports,
		session:     ports.Session,
		styles:      s,
		keys:        km,
		browserView: browser.NewView(s, km, ports.Session),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewBrowser,
	}

	doc := a.session.Document()
	a.statusBar.SetDocument(doc.Name, doc.Size)
	return a, nil
}

// Session returns the current document session.
func (a *App) Session() driving.TreeSession {
	return a.session
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("skim - "+a.session.Document().Name),
		a.listenEvents(a.session),
	)
}

// listenEvents waits for the next asynchronous session notification.
// Re-armed after every received event.
func (a *App) listenEvents(session driving.TreeSession) tea.Cmd {
	ch := session.Events()
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return messages.SessionClosed{}
		}
		return messages.SessionEvent{Event: ev}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.statusBar.SetWidth(msg.Width)
		// Reserve the bottom line for the status bar
		a.browserView.SetDimensions(msg.Width, msg.Height-1)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SessionEvent:
		a.browserView, cmd = a.browserView.Update(msg)
		a.refreshStatus()
		return a, tea.Batch(cmd, a.listenEvents(a.session))

	case messages.SessionClosed:
		// Stale listener from a replaced session; nothing to re-arm.
		return a, nil

	case messages.DocumentReloaded:
		return a.handleReload(msg)

	case messages.ValueCopied:
		a.statusBar.SetMessage(fmt.Sprintf("Copied: %s", msg.Text))
		return a, a.expireStatus()

	case messages.StatusExpired:
		a.statusBar.SetMessage("")
		a.refreshStatus()
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, a.expireStatus()

	case messages.Quit:
		return a, tea.Quit
	}

	a.browserView, cmd = a.browserView.Update(msg)
	return a, cmd
}

// handleKeyMsg routes key presses between global bindings and the
// active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Global quit with ctrl+c
	if keyStr == "ctrl+c" {
		return a, tea.Quit
	}

	// While the search input is focused every key belongs to it
	if a.currentView == messages.ViewBrowser && a.browserView.Searching() {
		var cmd tea.Cmd
		a.browserView, cmd = a.browserView.Update(msg)
		a.refreshStatus()
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || keymap.Matches(keyStr, a.keys.Help) || keymap.Matches(keyStr, a.keys.Quit) {
			a.currentView = messages.ViewBrowser
			a.statusBar.SetState(status.StateBrowsing)
		}
		return a, nil

	case messages.ViewBrowser:
		if keymap.Matches(keyStr, a.keys.Quit) {
			return a, tea.Quit
		}
		if keymap.Matches(keyStr, a.keys.Help) {
			a.currentView = messages.ViewHelp
			a.statusBar.SetState(status.StateHelp)
			return a, nil
		}

		var cmd tea.Cmd
		a.browserView, cmd = a.browserView.Update(msg)
		a.refreshStatus()
		return a, cmd
	}

	return a, nil
}

// handleReload swaps in the session built from the changed file.
func (a *App) handleReload(msg messages.DocumentReloaded) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.err = msg.Err
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(fmt.Sprintf("reload failed: %s", msg.Err.Error()))
		return a, a.expireStatus()
	}

	old := a.session
	a.session = msg.Session
	a.ports.Session = msg.Session
	a.browserView.SetSession(msg.Session)
	if old != nil {
		old.Close()
	}

	doc := a.session.Document()
	a.statusBar.SetDocument(doc.Name, doc.Size)
	a.statusBar.SetMessage(fmt.Sprintf("Reloaded %s", doc.Name))
	a.refreshStatus()

	return a, tea.Batch(a.listenEvents(a.session), a.expireStatus())
}

// refreshStatus re-reads session counters into the status bar.
func (a *App) refreshStatus() {
	stats := a.session.Stats()
	a.statusBar.SetNodeCount(stats.Materialized)
	a.statusBar.SetMatches(stats.Matches, stats.CurrentMatch)
	if a.session.Query() != "" {
		a.statusBar.SetState(status.StateSearching)
	} else if a.statusBar.State() == status.StateSearching {
		a.statusBar.SetState(status.StateBrowsing)
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.browserView.View()
	}

	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  j/k, ↑/↓    Move the cursor
  pgup/pgdn   Move a screen at a time
  g / G       Jump to top / bottom

Tree:
  enter       Expand or collapse the selected container
  h/l, ←/→    Collapse / expand
  y           Copy the selected value

Search:
  /           Search keys and values
  enter       Keep the query and return to the tree
  n / N       Next / previous match
  esc         Clear the search

[esc] back to the document`
}

// expireStatus schedules the transient status message to clear.
func (a *App) expireStatus() tea.Cmd {
	return tea.Tick(statusFlashDuration, func(time.Time) tea.Msg {
		return messages.StatusExpired{}
	})
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.statusBar.SetWidth(width)
	a.browserView.SetDimensions(width, height-1)
}
