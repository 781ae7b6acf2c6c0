package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/grocy-mcp/internal/common"
	"github.com/bobmcallan/grocy-mcp/internal/config"
	"github.com/bobmcallan/grocy-mcp/internal/grocy"
)

// NewServer builds the MCP server with every tool and resource registered.
func NewServer(cfg *config.Config, client *grocy.Client, logger *common.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)

	d := NewDispatcher(client, logger)
	count := d.Register(s)
	RegisterResources(s, cfg.Server.Name)

	logger.Info().
		Int("tools", count).
		Int("resources", len(Resources)).
		Str("base_url", client.BaseURL()).
		Str("auth", client.Auth().Describe()).
		Msg("MCP server initialized")
	return s
}
