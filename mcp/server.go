// Package mcp provides an MCP (Model Context Protocol) server for runlex.
// This allows AI agents to classify and tokenize run records as a native tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alpkeskin/gotoon"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/spiretools/runlex/config"
	"github.com/spiretools/runlex/filter"
	"github.com/spiretools/runlex/gamedata"
	"github.com/spiretools/runlex/store"
	"github.com/spiretools/runlex/tokenizer"
	"github.com/spiretools/runlex/vocab"
)

// Server wraps the MCP server with runlex functionality.
type Server struct {
	mcpServer   *server.MCPServer
	projectRoot string
	catalog     *gamedata.Catalog
	filter      *filter.Filter
	tokenizer   *tokenizer.Tokenizer
}

// CheckResult is the filter verdict for one record.
type CheckResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// TokenizeResult is the tokenized form of one record.
type TokenizeResult struct {
	Valid    bool     `json:"valid"`
	Reason   string   `json:"reason,omitempty"`
	Tokens   int      `json:"tokens"`
	Sequence []string `json:"sequence,omitempty"`
}

// VocabResult is a slice of the vocabulary.
type VocabResult struct {
	Size   int      `json:"size"`
	Tokens []string `json:"tokens"`
}

// StatsResult is the aggregate tally snapshot.
type StatsResult struct {
	Totals *store.Totals `json:"totals"`
}

// encodeOutput encodes data in the specified format (json or toon).
func encodeOutput(data any, format string) (string, error) {
	switch format {
	case "toon":
		return gotoon.Encode(data)
	default: // "json"
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return "", err
		}
		return string(jsonBytes), nil
	}
}

// NewServer creates a new MCP server for runlex. projectRoot may be empty;
// the stats tool then reports an error and the record tools still work.
func NewServer(projectRoot string) (*Server, error) {
	catalog, err := gamedata.Load()
	if err != nil {
		return nil, err
	}

	s := &Server{
		projectRoot: projectRoot,
		catalog:     catalog,
		filter:      filter.New(catalog),
		tokenizer:   tokenizer.New(catalog),
	}

	s.mcpServer = server.NewMCPServer(
		"runlex",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s, nil
}

// registerTools registers all runlex tools with the MCP server.
func (s *Server) registerTools() {
	filterTool := mcp.NewTool("runlex_filter",
		mcp.WithDescription("Run the validity filter over one Slay the Spire run record. Returns whether the record is a standard unmodded run and, if not, the first matching rejection reason."),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("The run record as a JSON object"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(filterTool, s.handleFilter)

	tokenizeTool := mcp.NewTool("runlex_tokenize",
		mcp.WithDescription("Tokenize one run record into its canonical token sequence. Rejected records return the rejection reason instead of tokens."),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("The run record as a JSON object"),
		),
		mcp.WithBoolean("unchecked",
			mcp.Description("Tokenize even if the validity filter rejects the record (default: false)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(tokenizeTool, s.handleTokenize)

	vocabTool := mcp.NewTool("runlex_vocab",
		mcp.WithDescription("List the closed token vocabulary. Optionally filter by prefix."),
		mcp.WithString("prefix",
			mcp.Description("Only return tokens starting with this prefix (optional)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tokens to return (default: 100)"),
		),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(vocabTool, s.handleVocab)

	statsTool := mcp.NewTool("runlex_stats",
		mcp.WithDescription("Report the aggregate processing tallies stored for this project: processed, valid, rejected, errors, and the per-reason rejection breakdown."),
		mcp.WithString("format",
			mcp.Description("Output format: 'json' (default) or 'toon' (token-efficient)"),
		),
	)
	s.mcpServer.AddTool(statsTool, s.handleStats)
}

func parseRecord(raw string) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("record is not valid JSON: %w", err)
	}
	rec, ok := decoded.(map[string]any)
	if !ok {
		// Non-mapping input is still fed to the filter so the caller gets
		// the invalid_input_type verdict rather than a tool error.
		return nil, nil
	}
	return rec, nil
}

// handleFilter handles the runlex_filter tool call.
func (s *Server) handleFilter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError("record parameter is required"), nil
	}
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	rec, err := parseRecord(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var verdict filter.Reason
	if rec == nil {
		verdict = filter.ReasonInvalidInputType
	} else {
		verdict = s.filter.Check(rec)
	}

	result := CheckResult{Valid: verdict == filter.ReasonNone, Reason: string(verdict)}
	output, err := encodeOutput(result, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleTokenize handles the runlex_tokenize tool call.
func (s *Server) handleTokenize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError("record parameter is required"), nil
	}
	unchecked := request.GetBool("unchecked", false)
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	rec, err := parseRecord(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if rec == nil {
		result := TokenizeResult{Valid: false, Reason: string(filter.ReasonInvalidInputType)}
		output, _ := encodeOutput(result, format)
		return mcp.NewToolResultText(output), nil
	}

	result := TokenizeResult{Valid: true}
	if verdict := s.filter.Check(rec); verdict != filter.ReasonNone {
		result.Valid = false
		result.Reason = string(verdict)
		if !unchecked {
			output, _ := encodeOutput(result, format)
			return mcp.NewToolResultText(output), nil
		}
	}

	run, err := s.tokenizer.TokenizeRun(rec)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("tokenization failed: %v", err)), nil
	}
	result.Sequence = run.Sequence()
	result.Tokens = len(result.Sequence)

	output, err := encodeOutput(result, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleVocab handles the runlex_vocab tool call.
func (s *Server) handleVocab(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prefix := request.GetString("prefix", "")
	limit := request.GetInt("limit", 100)
	if limit <= 0 {
		limit = 100
	}
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	v := vocab.Build(s.catalog)
	result := VocabResult{Size: v.Len()}
	for _, tok := range v.Tokens {
		if prefix != "" && !strings.HasPrefix(tok, prefix) {
			continue
		}
		result.Tokens = append(result.Tokens, tok)
		if len(result.Tokens) >= limit {
			break
		}
	}

	output, err := encodeOutput(result, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

// handleStats handles the runlex_stats tool call.
func (s *Server) handleStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := request.GetString("format", "json")
	if format != "json" && format != "toon" {
		return mcp.NewToolResultError("format must be 'json' or 'toon'"), nil
	}

	if s.projectRoot == "" {
		return mcp.NewToolResultError("stats requires a project context; start mcp-serve from a project directory"), nil
	}
	cfg, err := config.Load(s.projectRoot)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load configuration: %v", err)), nil
	}

	st, err := s.createStore(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to initialize store: %v", err)), nil
	}
	defer st.Close()

	totals, err := st.Totals(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read totals: %v", err)), nil
	}

	output, err := encodeOutput(StatsResult{Totals: totals}, format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(output), nil
}

// createStore creates a tally store based on configuration.
func (s *Server) createStore(ctx context.Context, cfg *config.Config) (store.TallyStore, error) {
	switch cfg.Store.Backend {
	case "gob":
		gobStore := store.NewGOBStore(config.GetTallyPath(s.projectRoot))
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

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}
