package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleLaunchTool(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchToolInput) (*mcpsdk.CallToolResult, LaunchToolOutput, error) {
	if args.Tool == "" {
		return nil, LaunchToolOutput{}, fmt.Errorf("tool is required")
	}

	pid, err := s.client.Launch(args.Tool, args.Quadrant)
	if err != nil {
		return nil, LaunchToolOutput{}, err
	}
	return nil, LaunchToolOutput{PID: pid}, nil
}

func (s *Server) handlePlaceWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PlaceWindowInput) (*mcpsdk.CallToolResult, PlaceWindowOutput, error) {
	if args.Quadrant == "" {
		return nil, PlaceWindowOutput{}, fmt.Errorf("quadrant is required")
	}

	moved, err := s.client.PlaceLast(args.Quadrant)
	if err != nil {
		return nil, PlaceWindowOutput{}, err
	}
	return nil, PlaceWindowOutput{Moved: moved}, nil
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.client.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, err
	}

	return nil, GetStatusOutput{
		DaemonRunning:     status.DaemonRunning,
		UptimeSeconds:     status.UptimeSeconds,
		LastWindowID:      status.LastWindowID,
		LastWindowPID:     status.LastWindowPID,
		MonitoredChildren: status.MonitoredChildren,
		Tools:             status.Tools,
	}, nil
}
