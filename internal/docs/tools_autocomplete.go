package docs

import (
	"context"
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AutocompleteArgument defines autocomplete parameters.
type AutocompleteArgument struct {
	Version    string `json:"version,omitempty" jsonschema_description:"Library version (e.g., 1.9.0); defaults to the latest supported version"`
	Scope      string `json:"scope" jsonschema_description:"What to complete: versions, classes, interfaces, enums, types, events, properties or methods"`
	Query      string `json:"query,omitempty" jsonschema_description:"Partial input typed so far"`
	Parent     string `json:"parent,omitempty" jsonschema_description:"Class (or interface, for properties) whose members are completed"`
	ParentKind string `json:"parent_kind,omitempty" jsonschema_description:"Kind of the parent: class or interface"`
	Filter     string `json:"filter,omitempty" jsonschema_description:"Only complete classes having members of this kind: property, accessor, method or event"`
}

// AutocompleteHandler handles the docs_autocomplete MCP tool.
type AutocompleteHandler struct {
	service *Service
}

func NewAutocompleteHandler(service *Service) *AutocompleteHandler {
	return &AutocompleteHandler{service: service}
}

// Handle returns at most 25 ranked choices as JSON.
func (h *AutocompleteHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args AutocompleteArgument) (*mcp.CallToolResult, any, error) {
	scope, err := ParseScope(args.Scope)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	request := AutocompleteRequest{
		Version: args.Version,
		Scope:   scope,
		Query:   args.Query,
		Parent:  strings.TrimSpace(args.Parent),
	}
	if args.ParentKind != "" {
		if request.ParentKind, err = domain.ParseKind(args.ParentKind); err != nil {
			return errorResult(ctx, err), nil, nil
		}
	}
	if args.Filter != "" {
		if request.Filter, err = domain.ParseMemberKind(args.Filter); err != nil {
			return errorResult(ctx, err), nil, nil
		}
	}

	choices, err := h.service.Autocomplete(ctx, request)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	return jsonResult(ctx, choices), nil, nil
}

func (h *AutocompleteHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_autocomplete",
		Description: "Complete partial documentation names the way the bot's slash commands do, returning at most 25 choices",
	}
}

func RegisterAutocompleteTool(server *mcp.Server, service *Service) {
	handler := NewAutocompleteHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
