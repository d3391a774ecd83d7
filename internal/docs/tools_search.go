package docs

import (
	"context"
	"fmt"
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Version string `json:"version,omitempty" jsonschema_description:"Library version (e.g., 1.9.0); defaults to the latest supported version"`
	Query   string `json:"query" jsonschema_description:"Name or partial name of a class or class member"`
}

// SearchHandler handles the docs_search MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// Handle searches class and member names and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Query) == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Query cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	result, err := h.service.Search(ctx, args.Version, args.Query)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	return h.formatResults(result, args.Query), nil, nil
}

func (h *SearchHandler) formatResults(result SearchResult, query string) *mcp.CallToolResult {
	if len(result.Classes) == 0 && len(result.Members) == 0 {
		return textResult(fmt.Sprintf("No results found for query: %s", query))
	}

	var sb strings.Builder
	writeSection := func(title string, choices []domain.Choice) {
		if len(choices) == 0 {
			return
		}
		fmt.Fprintf(&sb, "### %s\n", title)
		for i, c := range choices {
			if c.Value == domain.MoreChoicesValue {
				fmt.Fprintf(&sb, "%s\n", c.Name)
				continue
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, c.Name)
		}
		sb.WriteByte('\n')
	}
	writeSection("Classes", result.Classes)
	writeSection("Members", result.Members)

	return textResult(strings.TrimRight(sb.String(), "\n"))
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_search",
		Description: "Fuzzy search class names and the properties, accessors and methods of classes",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
