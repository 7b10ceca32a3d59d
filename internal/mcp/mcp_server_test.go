package mcp_test

import (
	"context"
	"testing"

	"github.com/civicscan/fleetdoctor/internal/contract"
	mcp_internal "github.com/civicscan/fleetdoctor/internal/mcp"
	"github.com/civicscan/fleetdoctor/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		Provider:   "local",
		Classifier: schema.DefaultClassifierConfig(),
	}

	// Collaborators stay nil because we only exercise validation errors
	var provider contract.MetadataProvider
	var sandbox contract.Sandbox
	var mgr contract.StoreManager
	s := mcp_internal.NewMCPServer(baseCfg, provider, sandbox, mgr)

	ctx := context.Background()

	t.Run("analyze_repository missing repository", func(t *testing.T) {
		tool := s.GetTool("analyze_repository")
		require.NotNil(t, tool, "Tool analyze_repository should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "analyze_repository",
				Arguments: map[string]any{
					"repository": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "repository is required")
	})

	t.Run("classify_run missing log_text", func(t *testing.T) {
		tool := s.GetTool("classify_run")
		require.NotNil(t, tool, "Tool classify_run should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "classify_run",
				Arguments: map[string]any{
					"log_text": "", // Missing required
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "log_text is required")
	})

	t.Run("get_estimate_accuracy without store", func(t *testing.T) {
		tool := s.GetTool("get_estimate_accuracy")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "get_estimate_accuracy",
				Arguments: map[string]any{},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no assessment store configured")
	})
}

func TestMCPServerHandlers_ClassifyRun(t *testing.T) {
	baseCfg := &contract.Config{
		Provider:   "local",
		Classifier: schema.DefaultClassifierConfig(),
	}
	s := mcp_internal.NewMCPServer(baseCfg, nil, nil, nil)

	tool := s.GetTool("classify_run")
	require.NotNil(t, tool)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name: "classify_run",
			Arguments: map[string]any{
				"log_text":   "Traceback (most recent call last):\nModuleNotFoundError: No module named 'scrapy_ext'",
				"exit_code":  1.0,
				"item_count": 0.0,
			},
		},
	}

	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)
	text := res.Content[0].(mcp.TextContent).Text
	assert.Contains(t, text, `"status": "import_error"`)
	assert.Contains(t, text, `"confidence": "high"`)
}
