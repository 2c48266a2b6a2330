package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/persondays"
)

// flowGraphInput is the input schema for the flow_graph tool.
type flowGraphInput struct {
	Teams    []string `json:"teams,omitempty" jsonschema:"Team ids to include; empty includes all"`
	Projects []string `json:"projects,omitempty" jsonschema:"Project ids to include; empty includes all"`
}

// personDaysInput is the input schema for the person_days tool.
type personDaysInput struct {
	TimePoints []string `json:"time_points,omitempty" jsonschema:"Time point ids to accumulate over; empty selects all"`
	EndDate    string   `json:"end_date,omitempty" jsonschema:"End of the last segment, YYYY-MM-DD; empty uses the end of the last time point's year"`
}

// personDaysOutput is the output schema for the person_days tool.
type personDaysOutput struct {
	EndDate string              `json:"end_date"`
	Series  []persondays.Series `json:"series"`
}

// registerViewTools registers the flow_graph and person_days MCP tools.
func (s *Server) registerViewTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "flow_graph",
		Description: "Build the team-to-project headcount flow graph over the first three time points",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input flowGraphInput) (*mcp.CallToolResult, flow.Graph, error) {
		return nil, s.ws.Flow(flow.Filter{Teams: input.Teams, Projects: input.Projects}), nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "person_days",
		Description: "Accumulate person-days per project over the selected time points",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input personDaysInput) (*mcp.CallToolResult, personDaysOutput, error) {
		end := input.EndDate
		if end == "" {
			end = s.ws.DefaultEndDate()
		}
		series, err := s.ws.PersonDays(input.TimePoints, end)
		if err != nil {
			return nil, personDaysOutput{}, fmt.Errorf("accumulating person days: %w", err)
		}
		return nil, personDaysOutput{EndDate: end, Series: series}, nil
	})
}
