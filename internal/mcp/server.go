// Package mcp exposes the daemon's launch-and-place surface to MCP clients
// over stdio. All tools proxy to the running daemon through the IPC socket.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/quadtile/internal/ipc"
)

const (
	ServerName    = "quadtile"
	ServerVersion = "0.1.0"
)

// Server is the MCP server for quadtile window placement.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server proxying to the daemon.
func NewServer() *Server {
	s := &Server{
		client: ipc.NewClient(),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_tool",
		Description: "Launch a configured tool and place its window into a screen quadrant. The tool must be defined in quadtile's tools config. Placement happens asynchronously: the daemon polls for the new window and moves it once it appears. Returns the launched process id.",
	}, s.handleLaunchTool)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_window",
		Description: "Re-place the most recently placed window into a quadrant. No window search happens; the daemon reuses the stored window handle directly.",
	}, s.handlePlaceWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the daemon's status: uptime, the last placed window, monitored children and the configured tool names.",
	}, s.handleGetStatus)
}
