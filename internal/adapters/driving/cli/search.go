package cli

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/skim-cli/internal/core/domain"
	"github.com/custodia-labs/skim-cli/internal/core/services"
)

var (
	searchLimit int
	searchPlain bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query> <file>",
	Short: "Search a document without the interactive viewer",
	Long: `Searches keys and scalar values for a case-insensitive substring
and prints the path and value of each match, one per line. Intended
for scripting; use the interactive viewer for exploration.`,
	Args: cobra.ExactArgs(2),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of matches (0 for all)")
	searchCmd.Flags().BoolVar(&searchPlain, "plain", false, "disable colour output")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, path := args[0], args[1]

	if deps.Loader == nil {
		return errors.New("document loader not configured")
	}
	if len([]rune(strings.TrimSpace(query))) < services.MinQueryLength {
		return fmt.Errorf("%w: query must be at least %d characters",
			domain.ErrInvalidInput, services.MinQueryLength)
	}

	doc, err := deps.Loader.Load(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}

	// No session here: a one-shot search needs neither timers nor
	// reclamation, just the engine over a throwaway tree.
	mat := domain.NewMaterializer(domain.DefaultBatchConfig())
	engine := services.NewSearchEngine(mat)
	root := domain.NewRoot(doc.Value)
	defer root.EvictAllChildren()

	q := strings.TrimSpace(query)
	engine.ExpandToRevealMatches(root, q)
	matches := engine.CollectMatches(root, q)

	if len(matches) == 0 {
		cmd.Println("No matches found.")
		return nil
	}

	shown := matches
	if searchLimit > 0 && searchLimit < len(matches) {
		shown = matches[:searchLimit]
	}

	pathColor := color.New(color.FgCyan)
	matchColor := color.New(color.FgYellow, color.Bold)
	if searchPlain {
		pathColor.DisableColor()
		matchColor.DisableColor()
	}

	for _, m := range shown {
		line := fmt.Sprintf("%s  %s", pathColor.Sprint(m.Path()), highlightMatch(m.DisplaySummary(), q, matchColor))
		cmd.Println(line)
	}

	if len(shown) < len(matches) {
		cmd.Printf("... and %d more matches\n", len(matches)-len(shown))
	}

	return nil
}

// highlightMatch emboldens every case-insensitive occurrence of the
// query inside the printed value. Matching walks runes with parallel
// byte offsets into the original string: offsets found in a lowered
// copy cannot be used directly, since some case mappings change byte
// length (U+023A lowers to the wider U+2C65).
func highlightMatch(text, query string, c *color.Color) string {
	needle := []rune(strings.ToLower(query))
	if len(needle) == 0 {
		return text
	}

	runes := []rune(text)
	offs := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offs[i] = pos
		pos += utf8.RuneLen(r)
	}
	offs[len(runes)] = pos

	var b strings.Builder
	last := 0
	for i := 0; i+len(needle) <= len(runes); {
		match := true
		for j, q := range needle {
			if unicode.ToLower(runes[i+j]) != q {
				match = false
				break
			}
		}
		if !match {
			i++
			continue
		}
		end := i + len(needle)
		b.WriteString(text[last:offs[i]])
		b.WriteString(c.Sprint(text[offs[i]:offs[end]]))
		last = offs[end]
		i = end
	}
	b.WriteString(text[last:])
	return b.String()
}
