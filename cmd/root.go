package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kamusis/specq/internal/config"
	"github.com/kamusis/specq/internal/search"
	"github.com/spf13/cobra"
)

var (
	flagSpecsDir string
	flagDebug    bool
	flagColor    string
)

var rootCmd = &cobra.Command{
	Use:          "specq",
	Short:        "Search markdown specs with a small query language",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `specq searches a directory of markdown specs using a small query language:
bare terms, "exact phrases", field:value filters, date ranges, fuzzy~ terms,
and AND / OR / NOT with parentheses.

Run 'specq syntax' for the full query reference.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		setupLogging(flagDebug)
		switch flagColor {
		case "", config.ColorAuto, config.ColorAlways, config.ColorNever:
			return nil
		}
		return fmt.Errorf("--color must be one of auto, always, never (got %q)", flagColor)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagSpecsDir, "specs", "", "Specs directory (overrides specs_dir in ~/.specq/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "Colorize output: auto, always or never")
}

// setupLogging installs the process-wide slog handler. Logs go to stderr so
// --json output on stdout stays machine readable.
func setupLogging(debug bool) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadSettings returns the effective config: config.yaml, then environment,
// then command-line flags.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	if flagSpecsDir != "" {
		cfg.SpecsDir, err = config.ExpandPath(flagSpecsDir)
		if err != nil {
			return nil, err
		}
	}
	if flagColor != "" {
		cfg.Color = flagColor
	}
	return cfg, nil
}

// newEngine builds a search engine from cfg.
func newEngine(cfg *config.Config) (*search.Engine, error) {
	opts := []search.Option{
		search.WithLogger(slog.Default()),
		search.WithFuzzyDistance(cfg.FuzzyDistance),
	}
	if cfg.Workers > 0 {
		opts = append(opts, search.WithWorkers(cfg.Workers))
	}
	return search.NewEngine(opts...)
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
