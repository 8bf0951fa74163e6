package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/runlog"
	"github.com/spiretools/runlex/tokenizer"
)

var (
	tokenizeJSON      bool
	tokenizeTOON      bool
	tokenizeIndex     int
	tokenizeUnchecked bool
)

// TokenizedRecordJSON is the token stream for one record in JSON/TOON output.
type TokenizedRecordJSON struct {
	Index    int      `json:"index"`
	PlayID   string   `json:"play_id"`
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason,omitempty"`
	Tokens   int      `json:"tokens"`
	Sequence []string `json:"sequence,omitempty"`
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Tokenize records in a log file",
	Long: `Tokenize every valid record in one log file into its canonical token
sequence. Records the validity filter rejects are reported with their
rejection reason instead of a sequence unless --unchecked is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().BoolVarP(&tokenizeJSON, "json", "j", false, "Output sequences in JSON format (for AI agents)")
	tokenizeCmd.Flags().BoolVarP(&tokenizeTOON, "toon", "t", false, "Output sequences in TOON format (token-efficient for AI agents)")
	tokenizeCmd.Flags().IntVarP(&tokenizeIndex, "index", "i", -1, "Only tokenize the record at this index")
	tokenizeCmd.Flags().BoolVar(&tokenizeUnchecked, "unchecked", false, "Tokenize records even when the filter rejects them")
	tokenizeCmd.MarkFlagsMutuallyExclusive("json", "toon")
	rootCmd.AddCommand(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	catalog, err := gamedata.Load()
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}
	f := filter.New(catalog)
	tk := tokenizer.New(catalog)

	records, _, err := runlog.ParseFile(args[0])
	if err != nil {
		return err
	}
	if tokenizeIndex >= len(records) {
		return fmt.Errorf("record index %d out of range (%d records)", tokenizeIndex, len(records))
	}

	var results []TokenizedRecordJSON
	for i, rec := range records {
		if tokenizeIndex >= 0 && i != tokenizeIndex {
			continue
		}

		result := TokenizedRecordJSON{Index: i, PlayID: rec.ID(), Valid: true}
		if verdict := f.Check(rec); verdict != filter.ReasonNone {
			result.Valid = false
			result.Reason = string(verdict)
			if !tokenizeUnchecked {
				results = append(results, result)
				continue
			}
		}

		run, err := tk.TokenizeRun(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		result.Sequence = run.Sequence()
		result.Tokens = len(result.Sequence)
		results = append(results, result)
	}

	if tokenizeJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(results)
	}
	if tokenizeTOON {
		output, err := gotoon.Encode(results)
		if err != nil {
			return fmt.Errorf("failed to encode TOON: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	for _, result := range results {
		fmt.Printf("─── Record %d (%s) ───\n", result.Index, result.PlayID)
		if !result.Valid && result.Sequence == nil {
			fmt.Printf("rejected: %s\n\n", result.Reason)
			continue
		}
		if !result.Valid {
			fmt.Printf("rejected (%s), tokenized anyway:\n", result.Reason)
		}
		fmt.Printf("%d tokens\n", result.Tokens)
		fmt.Println(strings.Join(result.Sequence, " | "))
		fmt.Println()
	}
	return nil
}
