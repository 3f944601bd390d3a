// ABOUTME: MCP resource definitions
// ABOUTME: Provides read-only views of routines and today's progress

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hariviapak/routine-tracker/internal/models"
)

const (
	routinesURI = "routine://routines"
	todayURI    = "routine://today"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		Name:        routinesURI,
		Description: "All tracked routines",
		URI:         routinesURI,
		MIMEType:    "application/json",
	}, s.handleRoutinesResource)

	s.mcp.AddResource(&mcp.Resource{
		Name:        todayURI,
		Description: "Progress of every routine today",
		URI:         todayURI,
		MIMEType:    "application/json",
	}, s.handleTodayResource)
}

func jsonResource(uri string, v interface{}) *mcp.ReadResourceResult {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ") //nolint:errchkjson // output is always serializable
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		},
	}
}

func (s *Server) handleRoutinesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(routinesURI, s.listRoutines()), nil
}

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	day, err := s.tracker.Day(ctx, models.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get today: %w", err)
	}
	return jsonResource(todayURI, dayOutput(day)), nil
}
