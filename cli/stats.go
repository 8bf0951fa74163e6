package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/batch"
	"github.com/spiretools/runlex/config"
	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/store"
	"github.com/spiretools/runlex/tokenizer"
)

var (
	statsWorkers int
	statsNoSave  bool
)

var (
	statsTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statsLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	statsValueStyle  = lipgloss.NewStyle().Bold(true)
	statsReasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	statsDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var statsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Tally every log file and print a summary",
	Long: `Process every log file under a directory: classify each record, count
tokens for the valid ones, fold the per-file tallies into the project's
tally store, and print an aggregate summary.

The directory defaults to the configured log directory. Files matching
patterns in a .runlexignore at the directory root are skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVarP(&statsWorkers, "workers", "w", 0, "Parallel file workers (default: from config)")
	statsCmd.Flags().BoolVar(&statsNoSave, "no-save", false, "Print the summary without updating the tally store")
	rootCmd.AddCommand(statsCmd)
}

// initializeStore creates a tally store based on configuration.
func initializeStore(ctx context.Context, cfg *config.Config, projectRoot string) (store.TallyStore, error) {
	switch cfg.Store.Backend {
	case "gob":
		gobStore := store.NewGOBStore(config.GetTallyPath(projectRoot))
		if err := gobStore.Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load tallies: %w", err)
		}
		return gobStore, nil
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.Store.Postgres.DSN)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Store.Backend)
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logsDir := filepath.Join(projectRoot, cfg.Logs.Dir)
	if len(args) > 0 {
		logsDir = args[0]
		if !filepath.IsAbs(logsDir) {
			abs, err := filepath.Abs(logsDir)
			if err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}
			logsDir = abs
		}
	}

	catalog, err := gamedata.Load()
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}

	scanner := batch.NewScanner(logsDir, cfg.Logs.Pattern, batch.NewIgnoreMatcher(logsDir, cfg.Ignore))
	paths, err := scanner.Scan()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Printf("No files matching %q under %s\n", cfg.Logs.Pattern, logsDir)
		return nil
	}

	var st store.TallyStore
	if !statsNoSave {
		st, err = initializeStore(ctx, cfg, projectRoot)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	workers := cfg.Batch.Workers
	if statsWorkers > 0 {
		workers = statsWorkers
	}
	processor := batch.NewProcessor(filter.New(catalog), tokenizer.New(catalog), workers)

	fmt.Printf("Processing %d files with %d workers...\n", len(paths), workers)
	totals, _, err := processor.ProcessFiles(ctx, paths, st)
	if err != nil {
		return err
	}

	if st != nil {
		if err := st.Persist(ctx); err != nil {
			return fmt.Errorf("failed to persist tallies: %w", err)
		}
	}

	printTotals(totals)
	return nil
}

func printTotals(totals *store.Totals) {
	fmt.Println()
	fmt.Println(statsTitleStyle.Render("Run record tallies"))

	row := func(label string, value int) {
		fmt.Printf("%s %s\n", statsLabelStyle.Render(label), statsValueStyle.Render(fmt.Sprintf("%d", value)))
	}
	row("Files", totals.Files)
	row("Records", totals.Processed)
	row("Valid", totals.Valid)
	row("Rejected", totals.Rejected)
	row("Errors", totals.Errors)
	row("Skipped", totals.Skipped)
	row("Tokens", totals.Tokens)

	if len(totals.Characters) > 0 {
		fmt.Println()
		fmt.Println(statsTitleStyle.Render("Characters (valid runs)"))
		for _, name := range sortedByCount(totals.Characters) {
			fmt.Printf("  %-24s %s\n", name, statsValueStyle.Render(fmt.Sprintf("%d", totals.Characters[name])))
		}
	}

	if len(totals.Reasons) > 0 {
		fmt.Println()
		fmt.Println(statsTitleStyle.Render("Rejection reasons"))
		for _, tag := range sortedByCount(totals.Reasons) {
			fmt.Printf("  %s %s\n",
				statsReasonStyle.Render(fmt.Sprintf("%-40s", tag)),
				statsValueStyle.Render(fmt.Sprintf("%d", totals.Reasons[tag])))
		}
	}

	if !totals.UpdatedAt.IsZero() {
		fmt.Println()
		fmt.Println(statsDimStyle.Render("Last updated: " + totals.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
}

// sortedByCount returns keys ordered by descending count, ties alphabetical.
func sortedByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
