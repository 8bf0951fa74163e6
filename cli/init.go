package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/config"
)

var (
	initBackend        string
	initLogsDir        string
	initNonInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize runlex in the current directory",
	Long: `Initialize runlex by creating a .runlex directory with configuration.

This command will:
- Create .runlex/config.yaml with default settings
- Prompt for the run log directory
- Prompt for storage backend (GOB file or PostgreSQL)
- Add .runlex/ to .gitignore if present`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initBackend, "backend", "b", "", "Storage backend (gob or postgres)")
	initCmd.Flags().StringVarP(&initLogsDir, "logs-dir", "d", "", "Directory holding run log files (relative to project root)")
	initCmd.Flags().BoolVar(&initNonInteractive, "yes", false, "Use defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Check if already initialized
	if config.Exists(cwd) {
		fmt.Println("runlex is already initialized in this directory.")
		fmt.Printf("Configuration: %s\n", config.GetConfigPath(cwd))
		return nil
	}

	cfg := config.DefaultConfig()

	if initLogsDir != "" {
		cfg.Logs.Dir = initLogsDir
	}
	if initBackend != "" {
		cfg.Store.Backend = initBackend
	}

	if !initNonInteractive {
		reader := bufio.NewReader(os.Stdin)

		if initLogsDir == "" {
			fmt.Printf("Run log directory [%s]: ", cfg.Logs.Dir)
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)
			if input != "" {
				cfg.Logs.Dir = input
			}
		}

		if initBackend == "" {
			fmt.Println("\nSelect storage backend:")
			fmt.Println("  1) gob (local file, recommended for most projects)")
			fmt.Println("  2) postgres (for large collections or a shared tally store)")
			fmt.Print("Choice [1]: ")

			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(input)

			switch input {
			case "2", "postgres":
				cfg.Store.Backend = "postgres"
				fmt.Print("PostgreSQL DSN: ")
				dsn, _ := reader.ReadString('\n')
				cfg.Store.Postgres.DSN = strings.TrimSpace(dsn)
			default:
				cfg.Store.Backend = "gob"
			}
		}
	}

	switch cfg.Store.Backend {
	case "gob", "postgres":
	default:
		return fmt.Errorf("unknown storage backend: %s", cfg.Store.Backend)
	}

	if err := os.MkdirAll(config.GetConfigDir(cwd), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := cfg.Save(cwd); err != nil {
		return err
	}

	if err := addToGitignore(cwd); err != nil {
		fmt.Printf("Warning: could not update .gitignore: %v\n", err)
	}

	fmt.Println("\nrunlex initialized.")
	fmt.Printf("Configuration: %s\n", config.GetConfigPath(cwd))
	fmt.Printf("Log directory: %s\n", cfg.Logs.Dir)
	fmt.Printf("Backend:       %s\n", cfg.Store.Backend)
	fmt.Println("\nNext steps:")
	fmt.Printf("  runlex stats %s    Tally every log file\n", cfg.Logs.Dir)
	fmt.Println("  runlex watch            Keep tallies current as files land")
	return nil
}

// addToGitignore appends .runlex/ to an existing .gitignore. A repo without
// one is left alone.
func addToGitignore(projectRoot string) error {
	gitignorePath := filepath.Join(projectRoot, ".gitignore")
	data, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == ".runlex/" || strings.TrimSpace(line) == ".runlex" {
			return nil
		}
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	entry := "\n# runlex local state\n.runlex/\n"
	if len(data) > 0 && data[len(data)-1] == '\n' {
		entry = "# runlex local state\n.runlex/\n"
	}
	_, err = f.WriteString(entry)
	return err
}
