package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/vocab"
)

var (
	vocabJSON   bool
	vocabTOON   bool
	vocabCount  bool
	vocabPrefix string
)

// VocabEntryJSON is one vocabulary entry with its ordinal.
type VocabEntryJSON struct {
	Ordinal int    `json:"ordinal"`
	Token   string `json:"token"`
}

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Dump the token vocabulary",
	Long: `Build the closed token vocabulary from the embedded game catalog and
print every token with its ordinal. The vocabulary is deterministic: the
same catalog always yields the same sorted token list.`,
	RunE: runVocab,
}

func init() {
	vocabCmd.Flags().BoolVarP(&vocabJSON, "json", "j", false, "Output entries in JSON format (for AI agents)")
	vocabCmd.Flags().BoolVarP(&vocabTOON, "toon", "t", false, "Output entries in TOON format (token-efficient for AI agents)")
	vocabCmd.Flags().BoolVarP(&vocabCount, "count", "c", false, "Only print the vocabulary size")
	vocabCmd.Flags().StringVarP(&vocabPrefix, "prefix", "p", "", "Only print tokens starting with this prefix")
	vocabCmd.MarkFlagsMutuallyExclusive("json", "toon")
	rootCmd.AddCommand(vocabCmd)
}

func runVocab(cmd *cobra.Command, args []string) error {
	catalog, err := gamedata.Load()
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}
	v := vocab.Build(catalog)

	if vocabCount {
		fmt.Println(v.Len())
		return nil
	}

	var entries []VocabEntryJSON
	for i, tok := range v.Tokens {
		if vocabPrefix != "" && !strings.HasPrefix(tok, vocabPrefix) {
			continue
		}
		entries = append(entries, VocabEntryJSON{Ordinal: i, Token: tok})
	}

	if vocabJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	}
	if vocabTOON {
		output, err := gotoon.Encode(entries)
		if err != nil {
			return fmt.Errorf("failed to encode TOON: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%6d  %s\n", entry.Ordinal, entry.Token)
	}
	fmt.Printf("\n%d tokens\n", len(entries))
	return nil
}
