package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "runlex",
	Short: "Filter and tokenize Slay the Spire run records",
	Long: `runlex turns raw Slay the Spire run-record JSON into deterministic token
sequences for sequence-model training.

It keeps only standard unmodded runs (a chain of validity checks with
first-match-wins rejection reasons), tokenizes each surviving record into
a canonical event stream, and maintains per-file tallies in a local store.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
