// Package cli provides the command-line interface for skim.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skim-cli/internal/core/ports/driven"
	"github.com/custodia-labs/skim-cli/internal/core/services"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Deps aggregates the driven adapters the commands need. Wired once
// from main before Execute.
type Deps struct {
	// Loader reads and decodes document files.
	Loader driven.DocumentLoader

	// History persists the recent-files list.
	History driven.HistoryStore

	// Config provides persistent configuration.
	Config driven.ConfigStore

	// Session tunes every session the CLI opens.
	Session services.SessionConfig
}

// deps holds the current dependency wiring.
var deps Deps

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "skim [file]",
	Short: "Interactively skim large JSON files",
	Long: `Skim is a terminal viewer for large JSON, JSONC, and YAML files.

It materialises the document tree lazily, so multi-hundred-megabyte
files open instantly and stay within a bounded memory footprint.

Controls:
  ↑/k, ↓/j - Move the cursor
  enter/l  - Expand / collapse
  /        - Search keys and values
  n/N      - Next / previous match
  q        - Quit`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: runView,
}

// SetDeps wires the driven adapters into the command tree.
func SetDeps(d Deps) {
	deps = d
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
