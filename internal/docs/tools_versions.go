package docs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// VersionsArgument takes no parameters.
type VersionsArgument struct{}

// VersionsHandler handles the docs_versions MCP tool.
type VersionsHandler struct {
	service *Service
}

func NewVersionsHandler(service *Service) *VersionsHandler {
	return &VersionsHandler{service: service}
}

// Handle lists the supported and the generated versions.
func (h *VersionsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args VersionsArgument) (*mcp.CallToolResult, any, error) {
	info := h.service.Versions()

	var sb strings.Builder
	if len(info.Versions) == 0 {
		sb.WriteString("No supported versions are known yet.\n")
	} else {
		fmt.Fprintf(&sb, "Supported versions: %s\n", strings.Join(info.Versions, ", "))
		fmt.Fprintf(&sb, "Default version: %s\n", info.Default)
	}
	if len(info.Generated) > 0 {
		fmt.Fprintf(&sb, "Generated versions: %s\n", strings.Join(info.Generated, ", "))
	}
	if at := h.service.Catalog().RefreshedAt(); !at.IsZero() {
		fmt.Fprintf(&sb, "Catalog refreshed %s\n", humanize.Time(at))
	}
	return textResult(strings.TrimRight(sb.String(), "\n")), nil, nil
}

func (h *VersionsHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_versions",
		Description: "List the library versions whose documentation can be queried",
	}
}

func RegisterVersionsTool(server *mcp.Server, service *Service) {
	handler := NewVersionsHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// StatusArgument selects the version to check.
type StatusArgument struct {
	Version string `json:"version,omitempty" jsonschema_description:"Library version (e.g., 1.9.0); defaults to the latest supported version"`
}

// StatusHandler handles the docs_status MCP tool.
type StatusHandler struct {
	service *Service
}

func NewStatusHandler(service *Service) *StatusHandler {
	return &StatusHandler{service: service}
}

// Handle reports whether a version is ready, scheduling its generation
// when it is missing.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgument) (*mcp.CallToolResult, any, error) {
	status, err := h.service.Status(ctx, args.Version)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}

	switch {
	case status.Ready:
		return textResult(fmt.Sprintf("The docs for %s are ready.", status.Version)), nil, nil
	case status.Current == status.Version:
		return textResult(fmt.Sprintf("The docs for %s are being generated now.", status.Version)), nil, nil
	default:
		return textResult(fmt.Sprintf("The docs for %s are queued for generation (%d waiting).", status.Version, status.Pending)), nil, nil
	}
}

func (h *StatusHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_status",
		Description: "Check whether the documentation of a version is ready and start generating it if not",
	}
}

func RegisterStatusTool(server *mcp.Server, service *Service) {
	handler := NewStatusHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}

// ReportArgument selects the version whose report is shown.
type ReportArgument struct {
	Version string `json:"version,omitempty" jsonschema_description:"Library version (e.g., 1.9.0); defaults to the latest supported version"`
	Logs    bool   `json:"logs,omitempty" jsonschema_description:"Include the generation log lines"`
}

// ReportHandler handles the docs_report MCP tool.
type ReportHandler struct {
	service *Service
}

func NewReportHandler(service *Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// Handle shows the latest generation report of a version.
func (h *ReportHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ReportArgument) (*mcp.CallToolResult, any, error) {
	report, err := h.service.Report(ctx, args.Version)
	if err != nil {
		return errorResult(ctx, err), nil, nil
	}

	var sb strings.Builder
	sb.WriteString(report.Message)
	sb.WriteByte('\n')
	if report.Source != "" {
		fmt.Fprintf(&sb, "Source: %s (%s)\n", report.Source, humanize.Bytes(uint64(max(report.Bytes, 0))))
	}
	fmt.Fprintf(&sb, "Took %s, %s\n", report.Duration.Round(time.Millisecond), humanize.Time(report.CreatedAt))
	if args.Logs {
		for _, line := range report.Logs {
			fmt.Fprintf(&sb, "- %s\n", line)
		}
	}
	return textResult(strings.TrimRight(sb.String(), "\n")), nil, nil
}

func (h *ReportHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "docs_report",
		Description: "Show the latest documentation generation report of a version",
	}
}

func RegisterReportTool(server *mcp.Server, service *Service) {
	handler := NewReportHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
