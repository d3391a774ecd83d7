package docs

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	slogctx "github.com/veqryn/slog-context"
)

// RegisterTools registers every docs tool with an MCP server.
func RegisterTools(server *mcp.Server, service *Service) {
	RegisterVersionsTool(server, service)
	RegisterStatusTool(server, service)
	RegisterReportTool(server, service)
	RegisterLookupTool(server, service)
	RegisterAutocompleteTool(server, service)
	RegisterSearchTool(server, service)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// errorResult reports err to the caller. Hinted errors show their hints,
// anything else a generic message while the details go to the log.
func errorResult(ctx context.Context, err error) *mcp.CallToolResult {
	text := errors.FlattenHints(err)
	if text == "" {
		slogctx.Error(ctx, "Docs tool failed", "error", err)
		text = "Something went wrong. Please try again later."
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

// jsonResult returns v as indented JSON text.
func jsonResult(ctx context.Context, v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(ctx, errors.Wrap(err, "encode result"))
	}
	return textResult(string(data))
}
