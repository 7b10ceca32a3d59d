// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the fleetdoctor MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, provider contract.MetadataProvider, sandbox contract.Sandbox, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Fleet Doctor Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg:  baseCfg,
		provider: provider,
		sandbox:  sandbox,
		mgr:      mgr,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Run every scraper in one repository and produce its health report."),
		mcp.WithString("repository", mcp.Description("Name of the scraper repository to analyze."), mcp.Required()),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent scraper runs.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: analyze_fleet ---
	s.AddTool(mcp.NewTool("analyze_fleet",
		mcp.WithDescription("Analyze every known scraper repository and produce the fleet-wide ecosystem report."),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent scraper runs per repository.")),
	), h.handleAnalyzeFleet)

	// --- 3. Tool: classify_run ---
	s.AddTool(mcp.NewTool("classify_run",
		mcp.WithDescription("Classify one captured scraper run from its log text, exit code, item count and duration."),
		mcp.WithString("log_text", mcp.Description("The captured log output of the run."), mcp.Required()),
		mcp.WithNumber("exit_code", mcp.Description("The process exit code. Defaults to 0.")),
		mcp.WithNumber("item_count", mcp.Description("Number of items the run produced. Defaults to 0.")),
		mcp.WithNumber("duration_seconds", mcp.Description("Wall-clock run duration in seconds.")),
	), h.handleClassifyRun)

	// --- 4. Tool: get_estimate_accuracy ---
	s.AddTool(mcp.NewTool("get_estimate_accuracy",
		mcp.WithDescription("Report how well past repair-effort estimates matched recorded outcomes."),
	), h.handleEstimateAccuracy)

	return s
}

// StartMCPServer starts the fleetdoctor MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, provider contract.MetadataProvider, sandbox contract.Sandbox, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, provider, sandbox, mgr)
	return server.ServeStdio(s)
}
