package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alpkeskin/gotoon"
	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/runlog"
)

var (
	checkJSON bool
	checkTOON bool
)

// CheckRecordJSON is the per-record verdict for JSON/TOON output.
type CheckRecordJSON struct {
	Index  int    `json:"index"`
	PlayID string `json:"play_id"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Classify every record in a log file",
	Long: `Run the validity filter over every record in one log file and report,
per record, whether it is a standard unmodded run and otherwise the first
matching rejection reason.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&checkJSON, "json", "j", false, "Output verdicts in JSON format (for AI agents)")
	checkCmd.Flags().BoolVarP(&checkTOON, "toon", "t", false, "Output verdicts in TOON format (token-efficient for AI agents)")
	checkCmd.MarkFlagsMutuallyExclusive("json", "toon")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	catalog, err := gamedata.Load()
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}
	f := filter.New(catalog)

	records, skipped, err := runlog.ParseFile(args[0])
	if err != nil {
		return err
	}

	verdicts := make([]CheckRecordJSON, len(records))
	reasons := make(map[string]int)
	valid := 0
	for i, rec := range records {
		verdict := f.Check(rec)
		verdicts[i] = CheckRecordJSON{
			Index:  i,
			PlayID: rec.ID(),
			Valid:  verdict == filter.ReasonNone,
			Reason: string(verdict),
		}
		if verdict == filter.ReasonNone {
			valid++
		} else {
			reasons[string(verdict)]++
		}
	}

	if checkJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(verdicts)
	}
	if checkTOON {
		output, err := gotoon.Encode(verdicts)
		if err != nil {
			return fmt.Errorf("failed to encode TOON: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	for _, v := range verdicts {
		if v.Valid {
			fmt.Printf("%4d  %s  valid\n", v.Index, v.PlayID)
		} else {
			fmt.Printf("%4d  %s  rejected: %s\n", v.Index, v.PlayID, v.Reason)
		}
	}

	fmt.Printf("\n%d records: %d valid, %d rejected", len(records), valid, len(records)-valid)
	if skipped > 0 {
		fmt.Printf(", %d malformed entries skipped", skipped)
	}
	fmt.Println()

	if len(reasons) > 0 {
		tags := make([]string, 0, len(reasons))
		for tag := range reasons {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			fmt.Printf("  %-40s %d\n", tag, reasons[tag])
		}
	}
	return nil
}
