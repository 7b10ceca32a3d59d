package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/civicscan/fleetdoctor/core"
	"github.com/civicscan/fleetdoctor/internal/contract"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg  *contract.Config
	provider contract.MetadataProvider
	sandbox  contract.Sandbox
	mgr      contract.StoreManager
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := request.GetString("repository", "")
	if repo == "" {
		return mcp.NewToolResultError("repository is required"), nil
	}

	cfg := h.baseCfg.Clone()
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	an := core.NewAnalyzer(cfg, h.provider, h.sandbox)
	rep, err := an.AnalyzeRepository(ctx, repo, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(rep, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAnalyzeFleet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if w := request.GetInt("workers", 0); w > 0 {
		cfg.Workers = w
	}

	an := core.NewAnalyzer(cfg, h.provider, h.sandbox)
	eco, err := an.AnalyzeFleet(ctx, time.Now())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fleet analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(eco, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleClassifyRun(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logText := request.GetString("log_text", "")
	if logText == "" {
		return mcp.NewToolResultError("log_text is required"), nil
	}

	res := schema.ExecutionResult{
		ExitCode:        request.GetInt("exit_code", 0),
		ItemCount:       request.GetInt("item_count", 0),
		DurationSeconds: request.GetFloat("duration_seconds", 0),
		LogText:         logText,
	}

	classifier := core.NewClassifier(h.baseCfg.Classifier)
	cls := classifier.Classify(res, time.Now())

	jsonData, _ := json.MarshalIndent(cls, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEstimateAccuracy(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.mgr == nil {
		return mcp.NewToolResultError("no assessment store configured; set store-backend"), nil
	}
	store := h.mgr.GetAssessmentStore()
	if store == nil {
		return mcp.NewToolResultError("no assessment store configured; set store-backend"), nil
	}

	stats, err := store.AccuracyStats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("accuracy query failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
