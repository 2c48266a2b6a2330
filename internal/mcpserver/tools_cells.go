package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/reconcile"
)

// cellInput addresses one cell.
type cellInput struct {
	TimePoint string `json:"time_point" jsonschema:"Time point id"`
	Project   string `json:"project" jsonschema:"Project id"`
	Team      string `json:"team" jsonschema:"Team id"`
}

func (in cellInput) key() alloc.Key {
	return alloc.Key{TimePoint: in.TimePoint, Project: in.Project, Team: in.Team}
}

// getCellOutput is the output schema for the get_cell tool.
type getCellOutput struct {
	Occupied   float64 `json:"occupied"`
	Prerelease float64 `json:"prerelease"`
}

// setCellInput is the input schema for the set_cell tool.
type setCellInput struct {
	TimePoint string  `json:"time_point" jsonschema:"Time point id"`
	Project   string  `json:"project" jsonschema:"Project id"`
	Team      string  `json:"team" jsonschema:"Team id"`
	Field     string  `json:"field" jsonschema:"occupied or prerelease"`
	Value     float64 `json:"value" jsonschema:"New headcount; negatives are clamped to 0"`
}

// setCellOutput is the output schema for the set_cell tool.
type setCellOutput struct {
	Writes []reconcile.Write `json:"writes"`
}

// registerCellTools registers the get_cell and set_cell MCP tools.
func (s *Server) registerCellTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_cell",
		Description: "Read the occupied and prerelease headcount of one team on one project at one time point",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input cellInput) (*mcp.CallToolResult, getCellOutput, error) {
		if err := s.checkKey(input.key()); err != nil {
			return nil, getCellOutput{}, err
		}
		c := s.ws.Get(input.key())
		return nil, getCellOutput{Occupied: c.Occupied, Prerelease: c.Prerelease}, nil
	})

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "set_cell",
		Description: "Set one field of a cell and reconcile neighbouring time points; returns every cell written",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input setCellInput) (*mcp.CallToolResult, setCellOutput, error) {
		k := alloc.Key{TimePoint: input.TimePoint, Project: input.Project, Team: input.Team}
		if err := s.checkKey(k); err != nil {
			return nil, setCellOutput{}, err
		}
		field, err := alloc.ParseField(input.Field)
		if err != nil {
			return nil, setCellOutput{}, err
		}

		res := s.ws.SetCell(k, field, input.Value)
		if s.onChange != nil {
			s.onChange(res)
		}
		return nil, setCellOutput{Writes: res.Writes}, nil
	})
}

// checkKey verifies that every id in k is registered.
func (s *Server) checkKey(k alloc.Key) error {
	if k.TimePoint == "" || k.Project == "" || k.Team == "" {
		return fmt.Errorf("time_point, project, and team are required")
	}
	var err error
	s.ws.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
		if _, ok := reg.TimePoint(k.TimePoint); !ok {
			err = fmt.Errorf("time point %q is not registered", k.TimePoint)
		} else if _, ok := reg.Project(k.Project); !ok {
			err = fmt.Errorf("project %q is not registered", k.Project)
		} else if _, ok := reg.Team(k.Team); !ok {
			err = fmt.Errorf("team %q is not registered", k.Team)
		}
	})
	return err
}
