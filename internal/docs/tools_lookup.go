package docs

import (
	"context"
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// LookupArgument defines lookup parameters.
type LookupArgument struct {
	Version    string `json:"version,omitempty" jsonschema_description:"Library version (e.g., 1.9.0); defaults to the latest supported version"`
	Name       string `json:"name" jsonschema_description:"Declaration name (e.g., Client); Class#member also selects a member"`
	Kind       string `json:"kind,omitempty" jsonschema_description:"Declaration kind: class, interface, enum, typeAlias, variable, function or reference"`
	Member     string `json:"member,omitempty" jsonschema_description:"Member name of a class or interface"`
	MemberKind string `json:"member_kind,omitempty" jsonschema_description:"Member kind: property, accessor, method or event; every kind is tried when empty"`
	Format     string `json:"format,omitempty" jsonschema_description:"Output format: markdown (default) or json"`
}

// LookupHandler handles the docs_lookup MCP tool.
type LookupHandler struct {
	service *Service
}

func NewLookupHandler(service *Service) *LookupHandler {
	return &LookupHandler{service: service}
}

// Handle looks up a declaration or one of its members.
func (h *LookupHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args LookupArgument) (*mcp.CallToolResult, any, error) {
	name := strings.TrimSpace(args.Name)
	member := strings.TrimSpace(args.Member)
	if parent, m, ok := strings.Cut(name, "#"); ok && member == "" {
		name, member = parent, m
	}
	if name == "" {
		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: "Name cannot be empty"},
			},
			IsError: true,
		}, nil, nil
	}

	var kind domain.Kind
	if args.Kind != "" {
		k, err := domain.ParseKind(args.Kind)
		if err != nil {
			return errorResult(ctx, err), nil, nil
		}
		kind = k
	}

	result, err := h.lookup(ctx, args, kind, name, member)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}

	if strings.EqualFold(args.Format, "json") {
		return jsonResult(ctx, result), nil, nil
	}
	text, err := h.service.Describe(ctx, result)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	return textResult(text), nil, nil
}

func (h *LookupHandler) lookup(ctx context.Context, args LookupArgument, kind domain.Kind, name, member string) (LookupResult, error) {
	if member == "" {
		return h.service.Lookup(ctx, args.Version, kind, name)
	}

	if kind == "" {
		parent, err := h.service.Lookup(ctx, args.Version, "", name)
		if err != nil {
			return LookupResult{}, err
		}
		kind = parent.Kind
	}

	if args.MemberKind != "" {
		memberKind, err := domain.ParseMemberKind(args.MemberKind)
		if err != nil {
			return LookupResult{}, err
		}
		return h.service.LookupMember(ctx, args.Version, kind, name, memberKind, member)
	}

	// Without a member kind every kind the parent can have is tried.
	kinds := []domain.MemberKind{domain.MemberProperty}
	if kind == domain.KindClass {
		kinds = append(kinds, domain.MemberAccessor, domain.MemberMethod, domain.MemberEvent)
	}
	for _, memberKind := range kinds {
		result, err := h.service.LookupMember(ctx, args.Version, kind, name, memberKind, member)
		if !errors.Is(err, domain.ErrNotFound) {
			return result, err
		}
	}
	return LookupResult{}, notFound(h.service.ResolveVersion(args.Version), "member %s on %s %s", member, kind, name)
}

func (h *LookupHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_lookup",
		Description: "Show the documentation of a class, interface, enum, type or one of their members, with links to the docs site",
	}
}

func RegisterLookupTool(server *mcp.Server, service *Service) {
	handler := NewLookupHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
