package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kamusis/specq/internal/search"
	"github.com/spf13/cobra"
)

var (
	flagShowJSON bool
	flagShowBody bool
)

var showCmd = &cobra.Command{
	Use:   "show <spec>",
	Short: "Show metadata of a spec",
	Long: `Display a formatted summary of one spec: its frontmatter, description
and, for directory specs, the files next to README.md.

The argument can be:
  - The exact spec name (e.g. 012-user-auth)
  - The spec number (e.g. 12)
  - A unique part of the name (e.g. user-auth)

Example:
  specq show 12
  specq show user-auth --body`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Print the spec as JSON")
	showCmd.Flags().BoolVar(&flagShowBody, "body", false, "Also print the markdown body")
	rootCmd.AddCommand(showCmd)
}

func runShow(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	specs, err := search.DiscoverSpecs(cfg.SpecsDir, search.DiscoverOptions{IncludeArchived: true})
	if err != nil {
		return err
	}
	spec, err := search.FindSpec(specs, args[0])
	if err != nil {
		return fmt.Errorf("%w\nTip: run 'specq search <terms>' to find specs.", err)
	}

	if flagShowJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(spec)
	}
	printSpec(os.Stdout, spec, specFiles(cfg.SpecsDir, spec))
	if flagShowBody {
		fmt.Println(strings.Repeat("─", 50))
		fmt.Print(spec.Content)
	}
	return nil
}

// printSpec writes the formatted summary of one spec.
func printSpec(w io.Writer, d search.SpecDoc, files []string) {
	fmt.Fprintf(w, "📄 Spec: %s\n", d.Name)
	fmt.Fprintf(w, "Title:     %s\n", d.Title)
	row := func(label, v string) {
		if v != "" {
			fmt.Fprintf(w, "%-10s %s\n", label+":", v)
		}
	}
	row("Status", d.Status)
	row("Priority", d.Priority)
	row("Assignee", d.Assignee)
	row("Tags", strings.Join(d.Tags, ", "))
	row("Created", d.Created)
	row("Updated", d.Updated)
	row("Completed", d.Completed)
	row("Due", d.Due)
	if d.Archived {
		row("Archived", "yes")
	}
	if d.Description != "" {
		fmt.Fprintf(w, "Summary:   %s\n", strings.ReplaceAll(strings.TrimSpace(d.Description), "\n", " "))
	}

	if len(d.Extra) > 0 {
		keys := make([]string, 0, len(d.Extra))
		for k := range d.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Fprintln(w, "\nOther fields:")
		for _, k := range keys {
			fmt.Fprintf(w, "  %s: %s\n", k, d.Extra[k])
		}
	}
	if len(files) > 0 {
		fmt.Fprintln(w, "\nFiles:")
		for _, f := range files {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	fmt.Fprintf(w, "\nPath: %s\n", d.Path)
}

// specFiles lists the entries beside a directory spec's README.md.
// Single-file specs have none.
func specFiles(root string, d search.SpecDoc) []string {
	if path.Base(d.Path) != "README.md" {
		return nil
	}
	dir := filepath.Join(root, filepath.FromSlash(path.Dir(d.Path)))
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		label := name
		switch {
		case name == "README.md":
			label = name + " (Spec)"
		case e.IsDir():
			label = name + "/"
		}
		out = append(out, label)
	}
	return out
}
