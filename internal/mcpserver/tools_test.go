package mcpserver

import (
	"math"
	"testing"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/reconcile"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/workspace"
)

func TestGetCell(t *testing.T) {
	t.Parallel()
	cs := mcpClientSession(t, NewServer(workspace.New(workspace.Demo()), 0, nil))

	var out getCellOutput
	decode(t, callTool(t, cs, "get_cell", map[string]any{
		"time_point": "time-2",
		"project":    "project-1",
		"team":       "team-1",
	}), &out)
	if out.Occupied != 8 || out.Prerelease != 2 {
		t.Errorf("get_cell = %+v, want occupied 8 prerelease 2", out)
	}

	res := callTool(t, cs, "get_cell", map[string]any{
		"time_point": "time-9",
		"project":    "project-1",
		"team":       "team-1",
	})
	if !res.IsError {
		t.Error("get_cell on unknown time point succeeded, want error")
	}
}

func TestSetCellReconcilesAndNotifies(t *testing.T) {
	t.Parallel()
	ws := workspace.New(workspace.Demo())
	var notified []reconcile.Result
	cs := mcpClientSession(t, NewServer(ws, 0, &Config{
		OnChange: func(r reconcile.Result) { notified = append(notified, r) },
	}))

	var out setCellOutput
	decode(t, callTool(t, cs, "set_cell", map[string]any{
		"time_point": "time-1",
		"project":    "project-1",
		"team":       "team-1",
		"field":      "prerelease",
		"value":      1,
	}), &out)

	if len(out.Writes) != 2 {
		t.Fatalf("writes = %+v, want edit and forward", out.Writes)
	}
	if out.Writes[1].Reason != reconcile.ReasonForward || out.Writes[1].After.Occupied != 3 {
		t.Errorf("forward write = %+v, want occupied 3", out.Writes[1])
	}
	if got := ws.Get(alloc.Key{TimePoint: "time-2", Project: "project-1", Team: "team-1"}); got.Occupied != 3 {
		t.Errorf("workspace cell = %+v, want occupied 3", got)
	}
	if len(notified) != 1 {
		t.Errorf("OnChange called %d times, want 1", len(notified))
	}
}

func TestSetCellRejectsBadInput(t *testing.T) {
	t.Parallel()
	cs := mcpClientSession(t, NewServer(workspace.New(workspace.Demo()), 0, nil))

	tests := []struct {
		name string
		args map[string]any
	}{
		{"bad field", map[string]any{"time_point": "time-1", "project": "project-1", "team": "team-1", "field": "released", "value": 1}},
		{"unknown team", map[string]any{"time_point": "time-1", "project": "project-1", "team": "nobody", "field": "occupied", "value": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := callTool(t, cs, "set_cell", tt.args); !res.IsError {
				t.Errorf("set_cell %v succeeded, want error", tt.args)
			}
		})
	}
}

func TestStatsTools(t *testing.T) {
	t.Parallel()
	ws := workspace.New(workspace.Demo())
	cs := mcpClientSession(t, NewServer(ws, 0, nil))

	var util teamUtilizationOutput
	decode(t, callTool(t, cs, "team_utilization", map[string]any{"team": "team-2", "time_point": "time-2"}), &util)
	want := ws.TeamUtilization("team-2", "time-2")
	if util.Used != want.Used || util.Capacity != 15 || util.Band != string(want.Band()) {
		t.Errorf("team_utilization = %+v, want %+v", util, want)
	}

	var sum stats.ProjectSummary
	decode(t, callTool(t, cs, "project_summary", map[string]any{"project": "project-1", "time_point": "time-1"}), &sum)
	if sum.Occupied != 13 || len(sum.Teams) != 3 {
		t.Errorf("project_summary = %+v, want occupied 13 over 3 teams", sum)
	}
	if res := callTool(t, cs, "project_summary", map[string]any{"project": "nope", "time_point": "time-1"}); !res.IsError {
		t.Error("project_summary for unknown project succeeded, want error")
	}

	var global stats.Global
	decode(t, callTool(t, cs, "global_statistics", map[string]any{}), &global)
	if global.TotalCapacity != 50 || global.TimePointsCounted != 4 {
		t.Errorf("global_statistics = %+v", global)
	}
	if math.Abs(global.TotalAllocated-ws.Statistics().TotalAllocated) > 1e-9 {
		t.Errorf("TotalAllocated = %v, want %v", global.TotalAllocated, ws.Statistics().TotalAllocated)
	}
}

func TestViewTools(t *testing.T) {
	t.Parallel()
	ws := workspace.New(workspace.Demo())
	cs := mcpClientSession(t, NewServer(ws, 0, nil))

	var g flow.Graph
	decode(t, callTool(t, cs, "flow_graph", map[string]any{"teams": []string{"team-1"}}), &g)
	for _, n := range g.Nodes {
		if n.Kind == flow.NodeTeam && n.RefID != "team-1" {
			t.Errorf("filtered graph has team node %q", n.RefID)
		}
	}
	if len(g.Links) == 0 {
		t.Error("flow_graph returned no links")
	}

	var pd personDaysOutput
	decode(t, callTool(t, cs, "person_days", map[string]any{}), &pd)
	if pd.EndDate != "2024-12-31" {
		t.Errorf("end_date = %q, want 2024-12-31", pd.EndDate)
	}
	if len(pd.Series) != 8 {
		t.Errorf("series = %d, want one per project", len(pd.Series))
	}

	if res := callTool(t, cs, "person_days", map[string]any{"end_date": "someday"}); !res.IsError {
		t.Error("person_days with bad end date succeeded, want error")
	}
}
