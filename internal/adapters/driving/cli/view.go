package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/services"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// runView is the root command body: open a file in the interactive
// viewer, or fall back to the recent list when no file is given.
func runView(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runRecent(cmd, nil)
	}

	if deps.Loader == nil {
		return errors.New("document loader not configured")
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the viewer needs an interactive terminal; use 'skim search' for scripted output")
	}

	// Panic recovery so a rendering bug leaves a stack trace instead of
	// a garbled terminal.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in viewer: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := cmd.Context()
	doc, err := deps.Loader.Load(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	sess := services.NewSession(doc, deps.Session)

	if deps.History != nil {
		if err := deps.History.Touch(ctx, domain.HistoryEntry{
			Path:       doc.Path,
			Name:       doc.Name,
			Size:       doc.Size,
			LastOpened: time.Now(),
		}); err != nil {
			logger.Warn("Recording history for %s: %v", doc.Path, err)
		}
	}

	app, err := tui.NewApp(&tui.Ports{Session: sess})
	if err != nil {
		sess.Close()
		return fmt.Errorf("creating viewer: %w", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen())

	// Live reload: rebuild the tree when the file changes on disk. The
	// watcher is best-effort; viewing works without it.
	if watcher, werr := fsnotify.NewWatcher(); werr == nil {
		if werr = watcher.Add(doc.Path); werr == nil {
			go watchFile(ctx, watcher, doc.Path, p)
			defer watcher.Close()
		} else {
			logger.Warn("Watching %s: %v", doc.Path, werr)
			watcher.Close()
		}
	} else {
		logger.Warn("Starting file watcher: %v", werr)
	}

	_, runErr := p.Run()

	// The session inside the app may have been swapped by a reload.
	final := app.Session()
	if deps.History != nil {
		if q := final.Query(); q != "" {
			if err := deps.History.SetLastQuery(ctx, doc.Path, q); err != nil {
				logger.Warn("Saving last query for %s: %v", doc.Path, err)
			}
		}
	}
	if err := final.Close(); err != nil {
		logger.Warn("Closing session: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("viewer error: %w", runErr)
	}
	return nil
}

// watchFile forwards on-disk changes to the running program. Each
// qualifying event decodes the file afresh and hands the program a
// replacement session.
func watchFile(ctx context.Context, watcher *fsnotify.Watcher, path string, p *tea.Program) {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("File changed on disk: %s", ev.Name)
			doc, err := deps.Loader.Load(ctx, path)
			if err != nil {
				p.Send(messages.DocumentReloaded{Err: err})
				continue
			}
			p.Send(messages.DocumentReloaded{
				Session: services.NewSession(doc, deps.Session),
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher: %v", err)
		}
	}
}
