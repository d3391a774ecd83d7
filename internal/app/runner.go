package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/OceanicJS/Bot/internal/config"
	"github.com/OceanicJS/Bot/internal/docs"
	mcputil "github.com/OceanicJS/Bot/internal/mcp"
	"github.com/OceanicJS/Bot/internal/storage"
	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"
	slogctx "github.com/veqryn/slog-context"
)

// ServerName is the MCP implementation name.
const ServerName = "oceanic-docs"

// RunParams contains dependencies for the run function
type RunParams struct {
	LoadSettings      func(*pflag.FlagSet) (*config.Settings, error)
	ValidSettings     func(*config.Settings) error
	StartSSEServer    func(*mcp.Server, *config.Settings) error
	CreateServer      func(*config.Settings, string) (*mcp.Server, func(), error)
	CustomIOTransport mcp.Transport // Optional: for testing with custom IO
}

// DefaultRunParams returns production dependencies
func DefaultRunParams() RunParams {
	return RunParams{
		LoadSettings:   config.LoadSettingsWithFlags,
		ValidSettings:  config.ValidateSettings,
		StartSSEServer: StartSSEServer,
		CreateServer:   CreateMCPServer,
	}
}

// RunWithDeps executes the server with the provided dependencies
func RunWithDeps(ctx context.Context, params RunParams, flags *pflag.FlagSet, version string) error {
	settings, err := params.LoadSettings(flags)
	if err != nil {
		return errors.Wrap(err, "failed to load settings")
	}

	if err := params.ValidSettings(settings); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	// Always log to stderr; stdout carries the stdio transport.
	logger, err := config.NewLogger(settings.Log, os.Stderr)
	if err != nil {
		return errors.Wrap(err, "failed to configure logging")
	}
	slog.SetDefault(logger)

	slog.Info("Starting oceanic docs server", "version", version)
	config.Log(settings)

	mcpServer, cleanup, err := params.CreateServer(settings, version)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if settings.Transport == config.TransportStdio {
		// Use custom transport if provided (for testing), otherwise use stdio
		transport := params.CustomIOTransport
		if transport == nil {
			transport = &mcp.StdioTransport{}
		}
		return mcpServer.Run(ctx, transport)
	}
	slog.Info("Starting SSE server", "host", settings.Host, "port", settings.Port)
	return params.StartSSEServer(mcpServer, settings)
}

// Services are the long-lived components behind the MCP tools.
type Services struct {
	Docs   *docs.Service
	DB     *storage.DB
	Snipes *storage.SnipeStore
}

// OpenServices opens the database and the docs service. Background work
// (catalog refresh, generation) runs until ctx is done.
func OpenServices(ctx context.Context, settings *config.Settings) (*Services, error) {
	db, err := storage.Open(ctx, settings.Storage.Path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	svc, err := docs.NewService(ctx, &settings.Docs, db)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create docs service")
	}

	return &Services{
		Docs:   svc,
		DB:     db,
		Snipes: storage.NewSnipeStore(db, settings.Storage.MaxSnipes),
	}, nil
}

// Close waits for queued generation to finish and releases resources.
func (s *Services) Close() error {
	s.Docs.Queue().Wait()
	return errors.CombineErrors(s.Docs.Close(), s.DB.Close())
}

// CreateMCPServer creates the MCP server with registered tools
func CreateMCPServer(settings *config.Settings, version string) (*mcp.Server, func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = slogctx.Append(ctx, "component", "docs")

	services, err := OpenServices(ctx, settings)
	if err != nil {
		cancel()
		return nil, nil, err
	}

	services.Docs.Initialize(ctx)
	go services.Docs.Run(ctx, settings.Docs.RefreshInterval)

	server := mcputil.CreateServer(mcputil.ServerConfig{
		Name:    ServerName,
		Version: version,
		Docs:    services.Docs,
		Snipes:  services.Snipes,
	})

	cleanup := func() {
		cancel()
		if err := services.Close(); err != nil {
			slog.Error("Failed to close services", "error", err)
		}
	}
	return server, cleanup, nil
}
