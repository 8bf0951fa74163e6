package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spiretools/runlex/config"
	"github.com/spiretools/runlex/mcp"
)

var mcpServeCmd = &cobra.Command{
	Use:   "mcp-serve [project-path]",
	Short: "Start runlex as an MCP server",
	Long: `Start runlex as an MCP (Model Context Protocol) server.

This allows AI agents to use runlex as a native tool through the MCP
protocol. The server communicates via stdio and exposes the following tools:

  - runlex_filter: Classify one run record (validity verdict + reason)
  - runlex_tokenize: Token stream for one run record
  - runlex_vocab: Vocabulary lookup and stats
  - runlex_stats: Aggregate tallies from the project's store

Arguments:
  project-path  Optional path to the runlex project directory.
                If not provided, searches for .runlex from the current
                directory. Without a project the record tools still work;
                only runlex_stats needs one.

Configuration for Claude Code:
  claude mcp add runlex -- runlex mcp-serve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpServeCmd)
}

// resolveMCPProjectRoot determines the project root for the MCP server.
// It may be empty: record-level tools work without a project.
func resolveMCPProjectRoot(explicitPath string) (string, error) {
	if explicitPath != "" {
		if !filepath.IsAbs(explicitPath) {
			abs, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf("failed to resolve path: %w", err)
			}
			explicitPath = abs
		}
		if !config.Exists(explicitPath) {
			return "", fmt.Errorf("no runlex project found at %s (run 'runlex init' first)", explicitPath)
		}
		return explicitPath, nil
	}

	projectRoot, err := config.FindProjectRoot()
	if err != nil {
		return "", nil
	}
	return projectRoot, nil
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	var explicitPath string
	if len(args) > 0 {
		explicitPath = args[0]
	}

	projectRoot, err := resolveMCPProjectRoot(explicitPath)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(projectRoot)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.Serve()
}
