package cmd

import (
	"fmt"

	"github.com/kamusis/specq/internal/query"
	"github.com/spf13/cobra"
)

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Short: "Show the query language reference",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Print(query.SyntaxHelp())
	},
}

func init() {
	rootCmd.AddCommand(syntaxCmd)
}
