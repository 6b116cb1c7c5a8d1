package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/specq/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default specq configuration",
	Long: `Create ~/.specq/config.yaml with default settings and a ~/.specq/.env
template for environment overrides. Existing files are left untouched.

  specq init                     specs_dir defaults to ./specs
  specq init --specs ~/work/specs`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	// ── 1. Resolve ~/.specq directory ─────────────────────────────────────────
	dir, err := config.SpecqDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	// ── 2. Create ~/.specq/ if it doesn't exist ───────────────────────────────
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	printOK("", fmt.Sprintf("specq directory ready: %s", dir))

	// ── 3. Write config.yaml if missing ───────────────────────────────────────
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		if flagSpecsDir != "" {
			cfg.SpecsDir = flagSpecsDir
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		printOK("", fmt.Sprintf("Config written: %s", cfgPath))
	} else {
		printSkip("", fmt.Sprintf("Config already exists: %s", cfgPath))
	}

	// ── 4. Write .env template ────────────────────────────────────────────────
	if err := config.EnsureDotEnvTemplate(); err != nil {
		return err
	}
	envPath, err := config.DotEnvPath()
	if err != nil {
		return err
	}
	printOK("", fmt.Sprintf("Environment template ready: %s", envPath))

	// ── 5. Check the specs directory ──────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if info, err := os.Stat(cfg.SpecsDir); err != nil || !info.IsDir() {
		printWarn("", fmt.Sprintf("specs directory not found: %s (set specs_dir or pass --specs)", cfg.SpecsDir))
	}

	fmt.Println("\n✓  specq init complete. Run 'specq doctor' to verify your specs.")
	return nil
}
