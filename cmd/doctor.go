package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/specq/internal/config"
	"github.com/kamusis/specq/internal/search"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and spec metadata",
	Long: `Check that specq's configuration loads and that every spec carries
metadata the query language can filter on. Run this command when a field or
date filter does not match a spec you expect.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("specq doctor")
	fmt.Println()

	// ── Check 1: config.yaml ──────────────────────────────────────────────────
	fmt.Println("[ config.yaml ]")
	cfgPath, err := config.ConfigPath()
	if err != nil {
		failD("cannot determine home directory: %v", err)
	} else if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		printMiss("", fmt.Sprintf("%s not found, using defaults (run 'specq init' to create it)", cfgPath))
	} else {
		printOK("", fmt.Sprintf("found: %s", cfgPath))
	}
	cfg, err := loadSettings()
	if err != nil {
		failD("%v", err)
		return fmt.Errorf("doctor found problems")
	}
	printOK("", fmt.Sprintf("limit %d, fuzzy distance %d", cfg.Limit, cfg.FuzzyDistance))
	fmt.Println()

	// ── Check 2: specs directory ──────────────────────────────────────────────
	fmt.Println("[ specs directory ]")
	info, err := os.Stat(cfg.SpecsDir)
	switch {
	case err != nil:
		failD("cannot access %s: %v", cfg.SpecsDir, err)
	case !info.IsDir():
		failD("%s is not a directory", cfg.SpecsDir)
	default:
		printOK("", cfg.SpecsDir)
	}
	fmt.Println()
	if !allOK {
		return fmt.Errorf("doctor found problems")
	}

	// ── Check 3: spec metadata ────────────────────────────────────────────────
	fmt.Println("[ specs ]")
	specs, err := search.DiscoverSpecs(cfg.SpecsDir, search.DiscoverOptions{IncludeArchived: true})
	if err != nil {
		failD("%v", err)
		return fmt.Errorf("doctor found problems")
	}
	printInfo("", fmt.Sprintf("%d spec(s) found", len(specs)))

	warned := 0
	for _, s := range specs {
		for _, issue := range search.CheckSpec(s) {
			printWarn(s.Name, issue)
			warned++
		}
	}
	for _, name := range search.DuplicateNames(specs) {
		printWarn(name, "name used by more than one spec")
		warned++
	}
	if warned == 0 {
		printOK("", "all specs have usable metadata")
	}

	fmt.Println()
	if !allOK {
		return fmt.Errorf("doctor found problems")
	}
	fmt.Println("✓  All checks passed.")
	return nil
}
