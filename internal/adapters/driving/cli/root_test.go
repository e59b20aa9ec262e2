package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skim-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skim-cli/internal/adapters/driven/loader"
	"github.com/custodia-labs/skim-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/skim-cli/internal/core/services"
)

// setupTestDeps wires real adapters rooted in a temp directory and
// restores the previous wiring on cleanup.
func setupTestDeps(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	cfg, err := file.NewConfigStore(dir)
	require.NoError(t, err)
	history, err := sqlite.NewStore(dir)
	require.NoError(t, err)

	old := deps
	deps = Deps{
		Loader:  loader.New(loader.DefaultMaxSize),
		History: history,
		Config:  cfg,
		Session: services.DefaultSessionConfig(),
	}
	t.Cleanup(func() {
		history.Close()
		deps = old
	})
}

// writeTestFile drops a document into a temp dir and returns its path.
func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	require.Equal(t, "skim [file]", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag, "verbose flag should exist")
	require.Equal(t, "v", flag.Shorthand)
}
