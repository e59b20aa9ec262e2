package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently opened files",
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, _ []string) error {
	if deps.History == nil {
		return errors.New("history store not configured")
	}

	entries, err := deps.History.Recent(cmd.Context(), recentLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No recently opened files.")
		cmd.Println("Open one with: skim <file>")
		return nil
	}

	cmd.Println("Recently opened:")
	cmd.Println()
	for i, e := range entries {
		cmd.Printf("  [%d] %s (%s, %s)\n", i+1, e.Name,
			humanize.Bytes(uint64(e.Size)), humanize.Time(e.LastOpened))
		cmd.Printf("      %s\n", e.Path)
		if e.LastQuery != "" {
			cmd.Printf("      last query: %q\n", e.LastQuery)
		}
		cmd.Println()
	}

	return nil
}
