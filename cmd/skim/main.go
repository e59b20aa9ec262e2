// Command skim is a terminal viewer for large JSON, JSONC, and YAML
// files.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/skim-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skim-cli/internal/adapters/driven/loader"
	"github.com/custodia-labs/skim-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/skim-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/skim-cli/internal/core/services"
	"github.com/custodia-labs/skim-cli/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	sessionCfg := services.SessionConfigFromStore(cfgStore)

	d := cli.Deps{
		Loader:  loader.New(loader.DefaultMaxSize),
		Config:  cfgStore,
		Session: sessionCfg,
	}

	// History is optional: a broken database degrades to a viewer
	// without a recent-files list.
	history, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Opening history store: %v", err)
	} else {
		d.History = history
		defer history.Close()
	}

	cli.SetDeps(d)
	cli.SetVersion(version)

	return cli.Execute()
}
