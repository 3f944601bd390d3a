// ABOUTME: MCP server initialization and configuration
// ABOUTME: Exposes the routine tracker to AI agents over stdio

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hariviapak/routine-tracker/internal/logger"
	"github.com/hariviapak/routine-tracker/internal/tracker"
)

// Server wraps the MCP server around a tracker.
type Server struct {
	mcp     *mcp.Server
	tracker *tracker.Tracker
	log     *logger.Logger
}

// NewServer creates an MCP server with all tools and resources registered.
func NewServer(tr *tracker.Tracker, log *logger.Logger) (*Server, error) {
	if tr == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "routine",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		tracker: tr,
		log:     log.WithComponent("mcp"),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	s.log.Debug("serving over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
