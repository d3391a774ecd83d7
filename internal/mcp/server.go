package mcp

import (
	"github.com/OceanicJS/Bot/internal/docs"
	"github.com/OceanicJS/Bot/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name    string
	Version string
	Docs    *docs.Service
	Snipes  *storage.SnipeStore
}

// CreateServer creates and configures the MCP server. Tools are registered
// only for the services that are set.
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.Docs != nil {
		docs.RegisterTools(s, cfg.Docs)
	}
	if cfg.Snipes != nil {
		storage.RegisterTools(s, cfg.Snipes)
	}

	return s
}
