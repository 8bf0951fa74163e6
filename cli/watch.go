package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/batch"
	"github.com/spiretools/runlex/config"
	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/store"
	"github.com/spiretools/runlex/tokenizer"
	"github.com/spiretools/runlex/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the log directory and keep tallies current",
	Long: `Watch the configured log directory for changes and fold every new or
modified file into the tally store as it lands.

The watcher will:
- Perform an initial pass over every existing log file
- Monitor filesystem events (create, modify, delete, rename)
- Apply debouncing to batch rapid writes to the same file
- Reprocess changed files and drop tallies for removed files`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return err
	}
	cfg, err := config.Load(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	catalog, err := gamedata.Load()
	if err != nil {
		return fmt.Errorf("failed to load game catalog: %w", err)
	}

	st, err := initializeStore(ctx, cfg, projectRoot)
	if err != nil {
		return err
	}
	defer st.Close()

	logsDir := filepath.Join(projectRoot, cfg.Logs.Dir)
	ignores := batch.NewIgnoreMatcher(logsDir, cfg.Ignore)
	processor := batch.NewProcessor(filter.New(catalog), tokenizer.New(catalog), cfg.Batch.Workers)

	// Initial pass so the store reflects everything already on disk.
	scanner := batch.NewScanner(logsDir, cfg.Logs.Pattern, ignores)
	paths, err := scanner.Scan()
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		fmt.Printf("Initial pass over %d files...\n", len(paths))
		totals, _, err := processor.ProcessFiles(ctx, paths, st)
		if err != nil {
			return err
		}
		fmt.Printf("Initial pass complete: %d records, %d valid, %d rejected, %d errors\n",
			totals.Processed, totals.Valid, totals.Rejected, totals.Errors)
	}
	if err := st.Persist(ctx); err != nil {
		log.Printf("Warning: failed to persist tallies: %v", err)
	}

	w, err := watcher.NewWatcher(logsDir, cfg.Logs.Pattern, ignores, cfg.Watch.DebounceMs)
	if err != nil {
		return fmt.Errorf("failed to initialize watcher: %w", err)
	}
	defer w.Close()

	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	persistTicker := time.NewTicker(30 * time.Second)
	defer persistTicker.Stop()

	fmt.Printf("\nWatching %s for changes... (Press Ctrl+C to stop)\n", logsDir)

	for {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down...")
			if err := st.Persist(ctx); err != nil {
				log.Printf("Warning: failed to persist tallies on shutdown: %v", err)
			}
			return nil

		case <-persistTicker.C:
			if err := st.Persist(ctx); err != nil {
				log.Printf("Warning: failed to persist tallies: %v", err)
			}

		case event := <-w.Events():
			handleWatchEvent(ctx, processor, st, logsDir, event)
		}
	}
}

func handleWatchEvent(ctx context.Context, processor *batch.Processor, st store.TallyStore, logsDir string, event watcher.FileEvent) {
	path := filepath.Join(logsDir, event.Path)

	switch event.Type {
	case watcher.EventCreate, watcher.EventModify:
		tally, err := processor.ProcessFile(ctx, path)
		if err != nil {
			log.Printf("Warning: failed to process %s: %v", event.Path, err)
			return
		}
		if err := st.SaveFileTally(ctx, tally); err != nil {
			log.Printf("Warning: failed to save tally for %s: %v", event.Path, err)
			return
		}
		fmt.Printf("[%s] %s: %d records, %d valid, %d rejected\n",
			event.Type, event.Path, tally.Processed, tally.Valid, tally.Rejected)

	case watcher.EventDelete, watcher.EventRename:
		// A rename shows up as a create at the new path; drop the old one.
		if err := st.DeleteByFile(ctx, path); err != nil {
			log.Printf("Warning: failed to delete tally for %s: %v", event.Path, err)
			return
		}
		fmt.Printf("[%s] %s: tally removed\n", event.Type, event.Path)
	}
}
