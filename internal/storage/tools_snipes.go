package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/OceanicJS/Bot/internal/domain"
	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	slogctx "github.com/veqryn/slog-context"
)

// RecordSnipeArgument defines the captured message.
type RecordSnipeArgument struct {
	Channel    string  `json:"channel" jsonschema_description:"Channel ID the message was in"`
	Type       string  `json:"type" jsonschema_description:"delete or edit"`
	AuthorID   string  `json:"author_id" jsonschema_description:"Author user ID"`
	AuthorTag  string  `json:"author_tag" jsonschema_description:"Author tag (e.g., name#0001)"`
	AvatarURL  string  `json:"avatar_url,omitempty" jsonschema_description:"Author avatar URL"`
	Content    string  `json:"content" jsonschema_description:"Message content (the new content for edits)"`
	OldContent *string `json:"old_content,omitempty" jsonschema_description:"Content before the edit"`
}

// RecordSnipeHandler handles the snipe_record MCP tool.
type RecordSnipeHandler struct {
	store *SnipeStore
}

func NewRecordSnipeHandler(store *SnipeStore) *RecordSnipeHandler {
	return &RecordSnipeHandler{store: store}
}

// Handle stores a deleted or edited message.
func (h *RecordSnipeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RecordSnipeArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Channel) == "" {
		return errorText("Channel cannot be empty"), nil, nil
	}
	if strings.TrimSpace(args.AuthorID) == "" {
		return errorText("Author ID cannot be empty"), nil, nil
	}
	typ, err := domain.ParseSnipeType(args.Type)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}

	snipe, err := h.store.Record(ctx, domain.Snipe{
		Author: domain.SnipeAuthor{
			ID:        args.AuthorID,
			Tag:       args.AuthorTag,
			AvatarURL: args.AvatarURL,
		},
		Channel:    args.Channel,
		Content:    args.Content,
		OldContent: args.OldContent,
		Type:       typ,
	})
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	return textResult(fmt.Sprintf("Recorded %s snipe %s.", snipe.Type, snipe.ID)), nil, nil
}

func (h *RecordSnipeHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snipe_record",
		Description: "Record a deleted or edited message so it can be sniped later",
	}
}

func RegisterRecordSnipeTool(server *mcp.Server, store *SnipeStore) {
	handler := NewRecordSnipeHandler(store)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// TakeSnipeArgument selects the snipe to take.
type TakeSnipeArgument struct {
	Channel string `json:"channel" jsonschema_description:"Channel ID to snipe"`
	Type    string `json:"type" jsonschema_description:"delete or edit"`
}

// TakeSnipeHandler handles the snipe_take MCP tool.
type TakeSnipeHandler struct {
	store *SnipeStore
}

func NewTakeSnipeHandler(store *SnipeStore) *TakeSnipeHandler {
	return &TakeSnipeHandler{store: store}
}

// Handle returns the newest matching snipe as JSON and removes it.
func (h *TakeSnipeHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args TakeSnipeArgument) (*mcp.CallToolResult, any, error) {
	if strings.TrimSpace(args.Channel) == "" {
		return errorText("Channel cannot be empty"), nil, nil
	}
	typ, err := domain.ParseSnipeType(args.Type)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}

	snipe, err := h.store.Take(ctx, args.Channel, typ)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}
	data, err := json.MarshalIndent(snipe, "", "  ")
	if err != nil {
		return errorResult(ctx, errors.Wrap(err, "encode snipe")), nil, nil
	}
	return textResult(string(data)), nil, nil
}

func (h *TakeSnipeHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "snipe_take",
		Description: "Take the most recent deleted or edited message of a channel",
	}
}

func RegisterTakeSnipeTool(server *mcp.Server, store *SnipeStore) {
	handler := NewTakeSnipeHandler(store)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// RegisterTools registers the snipe tools with an MCP server.
func RegisterTools(server *mcp.Server, store *SnipeStore) {
	RegisterRecordSnipeTool(server, store)
	RegisterTakeSnipeTool(server, store)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}

func errorResult(ctx context.Context, err error) *mcp.CallToolResult {
	text := errors.FlattenHints(err)
	if text == "" {
		slogctx.Error(ctx, "Snipe tool failed", "error", err)
		text = "Something went wrong. Please try again later."
	}
	return errorText(text)
}

