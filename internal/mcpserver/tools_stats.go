package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/papapumpkin/manpower/internal/stats"
)

// teamUtilizationInput is the input schema for the team_utilization tool.
type teamUtilizationInput struct {
	Team      string `json:"team" jsonschema:"Team id"`
	TimePoint string `json:"time_point" jsonschema:"Time point id"`
}

// teamUtilizationOutput is the output schema for the team_utilization tool.
type teamUtilizationOutput struct {
	Used       float64 `json:"used"`
	Capacity   float64 `json:"capacity"`
	Percentage float64 `json:"percentage"`
	Band       string  `json:"band"`
}

// projectSummaryInput is the input schema for the project_summary tool.
type projectSummaryInput struct {
	Project   string `json:"project" jsonschema:"Project id"`
	TimePoint string `json:"time_point" jsonschema:"Time point id"`
}

// globalStatisticsInput is the (empty) input schema for global_statistics.
type globalStatisticsInput struct{}

// registerStatsTools registers the utilization and summary MCP tools.
func (s *Server) registerStatsTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "team_utilization",
		Description: "Report a team's used headcount against its capacity at a time point",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input teamUtilizationInput) (*mcp.CallToolResult, teamUtilizationOutput, error) {
		if input.Team == "" || input.TimePoint == "" {
			return nil, teamUtilizationOutput{}, fmt.Errorf("team and time_point are required")
		}
		u := s.ws.TeamUtilization(input.Team, input.TimePoint)
		return nil, teamUtilizationOutput{
			Used:       u.Used,
			Capacity:   u.Capacity,
			Percentage: u.Percentage,
			Band:       string(u.Band()),
		}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "project_summary",
		Description: "Total a project's occupied and prerelease headcount at a time point, with a per-team breakdown",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input projectSummaryInput) (*mcp.CallToolResult, stats.ProjectSummary, error) {
		if input.Project == "" || input.TimePoint == "" {
			return nil, stats.ProjectSummary{}, fmt.Errorf("project and time_point are required")
		}
		sum, ok := s.ws.ProjectSummary(input.Project, input.TimePoint)
		if !ok {
			return nil, stats.ProjectSummary{}, fmt.Errorf("project %q is not registered", input.Project)
		}
		return nil, sum, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "global_statistics",
		Description: "Report total capacity and average allocated and prerelease headcount per time point",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ globalStatisticsInput) (*mcp.CallToolResult, stats.Global, error) {
		return nil, s.ws.Statistics(), nil
	})
}
