package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// configKeys are the recognised settings, in display order.
var configKeys = []struct {
	key  string
	desc string
}{
	{"batch.initial_size", "children materialised on first expand"},
	{"batch.size", "children materialised per continuation load"},
	{"reclaim.cap", "materialised children kept per container"},
	{"reclaim.interval_ms", "milliseconds between reclamation sweeps"},
	{"reclaim.idle_ms", "idle milliseconds before a raw value may be cleared"},
	{"reclaim.clear_ms", "delay before the idle-value check runs"},
	{"search.debounce_ms", "milliseconds of quiet before a search runs"},
	{"search.min_length", "minimum query length"},
	{"load.auto_delay_ms", "delay before a visible continuation loads"},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage skim settings",
	Long: `View and change viewer settings.

Settings are stored in ~/.skim/config.toml and take effect the next
time a file is opened.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if deps.Config == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()
	for _, k := range configKeys {
		val, ok := deps.Config.Get(k.key)
		if !ok {
			cmd.Printf("  %-22s (default)  %s\n", k.key, k.desc)
			continue
		}
		cmd.Printf("  %-22s %-10v %s\n", k.key, val, k.desc)
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if deps.Config == nil {
		return errors.New("config store not configured")
	}

	if !knownConfigKey(args[0]) {
		return fmt.Errorf("unknown setting %q", args[0])
	}
	val, ok := deps.Config.Get(args[0])
	if !ok {
		cmd.Println("(default)")
		return nil
	}
	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if deps.Config == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if !knownConfigKey(key) {
		return fmt.Errorf("unknown setting %q", key)
	}

	// All recognised settings are integers.
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fmt.Errorf("invalid value %q for %s: expected a positive integer", raw, key)
	}

	if err := deps.Config.Set(key, val); err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	if err := deps.Config.Save(); err != nil {
		return fmt.Errorf("saving configuration: %w", err)
	}

	cmd.Printf("%s set to %d\n", key, val)
	return nil
}

func knownConfigKey(key string) bool {
	for _, k := range configKeys {
		if k.key == key {
			return true
		}
	}
	return false
}
