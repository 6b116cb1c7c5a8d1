package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/kamusis/specq/internal/config"
	"github.com/kamusis/specq/internal/query"
	"github.com/kamusis/specq/internal/search"
	"github.com/spf13/cobra"
)

var (
	flagSearchLimit    int
	flagSearchJSON     bool
	flagSearchExplain  bool
	flagSearchArchived bool
	flagSearchFuzzy    int
	flagSearchWatch    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search specs with the query language",
	Long: `Search the specs directory and print matches ranked by relevance.

` + query.SyntaxHelp(),
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchLimit, "limit", "n", 0, "Maximum number of results (0 = no limit; default from config)")
	searchCmd.Flags().BoolVar(&flagSearchJSON, "json", false, "Print results as JSON")
	searchCmd.Flags().BoolVar(&flagSearchExplain, "explain", false, "Show how the query was parsed")
	searchCmd.Flags().BoolVar(&flagSearchArchived, "archived", false, "Include archived specs")
	searchCmd.Flags().IntVar(&flagSearchFuzzy, "fuzzy-distance", 0, "Edit distance allowed for fuzzy~ terms (default from config)")
	searchCmd.Flags().BoolVarP(&flagSearchWatch, "watch", "w", false, "Re-run the search whenever a spec changes")
	rootCmd.AddCommand(searchCmd)
}

// jsonOutput is the --json document.
type jsonOutput struct {
	Query   string                `json:"query"`
	Parsed  *query.ParsedQuery    `json:"parsed,omitempty"`
	Results []search.SearchResult `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	q := strings.Join(args, " ")

	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = flagSearchLimit
	}
	if cmd.Flags().Changed("fuzzy-distance") {
		cfg.FuzzyDistance = flagSearchFuzzy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := os.Stdout
	r := newRenderer(out, useColor(cfg.Color, out))
	once := func() error {
		return searchOnce(ctx, out, r, engine, cfg, q)
	}

	if !flagSearchWatch {
		return once()
	}

	if err := once(); err != nil {
		printErr("", err.Error())
	}
	fmt.Println()
	printInfo("", fmt.Sprintf("watching %s for changes (Ctrl-C to stop)", cfg.SpecsDir))
	return watchSpecs(ctx, cfg.SpecsDir, watchDebounce, func() {
		if err := once(); err != nil {
			printErr("", err.Error())
		}
	})
}

func searchOnce(ctx context.Context, w io.Writer, r *renderer, engine *search.Engine, cfg *config.Config, q string) error {
	docs, err := search.DiscoverSpecs(cfg.SpecsDir, search.DiscoverOptions{IncludeArchived: flagSearchArchived})
	if err != nil {
		return err
	}
	results, err := engine.Search(ctx, docs, q, search.SearchOptions{Limit: cfg.Limit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if flagSearchJSON {
		doc := jsonOutput{Query: q, Results: results}
		if flagSearchExplain {
			pq := engine.Explain(q)
			doc.Parsed = &pq
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	if flagSearchExplain {
		printExplain(w, engine.Explain(q))
	}
	printResults(w, r, q, results)
	return nil
}
