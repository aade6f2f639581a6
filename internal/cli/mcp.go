package cli

import (
	"context"

	"github.com/aretw0/roomread"
	mcpAdapter "github.com/aretw0/roomread/pkg/adapters/mcp"
)

// ServeMCP exposes the session manager as MCP tools on the configured transport.
func ServeMCP(ctx context.Context, env *Environment) error {
	srv := mcpAdapter.NewServer(env.App.Sessions(), roomread.Version, mcpAdapter.WithLogger(env.Logger))
	if env.Config.MCP.Transport == "sse" {
		return srv.ServeSSE(ctx, env.Config.MCP.Addr, env.Config.MCP.BaseURL)
	}
	env.Logger.Info("MCP server listening (stdio)")
	return srv.ServeStdio()
}
