package stats

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

func fixture() (*plan.Registry, *alloc.Matrix) {
	reg := plan.NewRegistry(
		[]plan.Team{
			{ID: "fe", Name: "Frontend", Capacity: 8, Color: "#3498db"},
			{ID: "be", Name: "Backend", Capacity: 5, Color: "#e74c3c"},
			{ID: "qa", Name: "QA", Capacity: 0, Color: "#f39c12"},
		},
		[]plan.Project{
			{ID: "crm", Name: "CRM", Teams: []string{"fe", "be"}},
			{ID: "app", Name: "App"},
		},
		[]plan.TimePoint{
			{ID: "q2", Name: "Q2", Date: "2024-04"},
			{ID: "q1", Name: "Q1", Date: "2024-01"},
			{ID: "q3", Name: "Q3", Date: "2024-07"},
		},
	)
	m := alloc.New()
	m.Set(alloc.Key{TimePoint: "q1", Project: "crm", Team: "fe"}, alloc.Cell{Occupied: 6, Prerelease: 2})
	m.Set(alloc.Key{TimePoint: "q1", Project: "crm", Team: "be"}, alloc.Cell{Occupied: 4})
	m.Set(alloc.Key{TimePoint: "q1", Project: "app", Team: "fe"}, alloc.Cell{Occupied: 1.5})
	m.Set(alloc.Key{TimePoint: "q1", Project: "app", Team: "qa"}, alloc.Cell{Occupied: 1})
	// Not in crm's team filter: invisible to Summarize but counted by utilization.
	m.Set(alloc.Key{TimePoint: "q1", Project: "crm", Team: "qa"}, alloc.Cell{Occupied: 2})
	m.Set(alloc.Key{TimePoint: "q2", Project: "app", Team: "be"}, alloc.Cell{Occupied: 6})
	return reg, m
}

func pct(used, capacity float64) float64 { return used / capacity * 100 }

func TestTeamUtilization(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	tests := []struct {
		name string
		team string
		tp   string
		want Utilization
	}{
		{"frontend", "fe", "q1", Utilization{Used: 7.5, Capacity: 8, Percentage: pct(7.5, 8)}},
		{"backend over", "be", "q2", Utilization{Used: 6, Capacity: 5, Percentage: pct(6, 5)}},
		{"zero capacity", "qa", "q1", Utilization{Used: 3, Capacity: 0, Percentage: 0}},
		{"unknown team", "ghost", "q1", Utilization{}},
		{"empty time point", "fe", "q3", Utilization{Capacity: 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TeamUtilization(reg, m, tt.team, tt.tp)
			if got != tt.want {
				t.Errorf("TeamUtilization(%q, %q) = %+v, want %+v", tt.team, tt.tp, got, tt.want)
			}
		})
	}
}

func TestOverallUtilization(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	got := OverallUtilization(reg, m, "q1")
	want := Utilization{Used: 14.5, Capacity: 13, Percentage: pct(14.5, 13)}
	if got != want {
		t.Errorf("OverallUtilization(q1) = %+v, want %+v", got, want)
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	got, ok := Summarize(reg, m, "crm", "q1")
	if !ok {
		t.Fatal("Summarize(crm) not found")
	}
	want := ProjectSummary{
		ProjectID:  "crm",
		Occupied:   10,
		Prerelease: 2,
		Teams: []TeamShare{
			{TeamID: "fe", TeamName: "Frontend", TeamColor: "#3498db", Occupied: 6},
			{TeamID: "be", TeamName: "Backend", TeamColor: "#e74c3c", Occupied: 4},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summarize mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Summarize(reg, m, "ghost", "q1"); ok {
		t.Error("Summarize(ghost) reported found")
	}

	empty, _ := Summarize(reg, m, "app", "q3")
	if len(empty.Teams) != 0 || empty.Occupied != 0 {
		t.Errorf("Summarize(app, q3) = %+v, want empty", empty)
	}
}

func TestGlobalStatisticsAverages(t *testing.T) {
	t.Parallel()

	reg := plan.NewRegistry(
		[]plan.Team{{ID: "x", Capacity: 30}},
		[]plan.Project{{ID: "p"}},
		[]plan.TimePoint{{ID: "t1", Date: "2024-01"}, {ID: "t2", Date: "2024-02"}, {ID: "t3", Date: "2024-03"}},
	)
	m := alloc.New()
	m.Set(alloc.Key{TimePoint: "t1", Project: "p", Team: "x"}, alloc.Cell{Occupied: 10, Prerelease: 2})
	m.Set(alloc.Key{TimePoint: "t2", Project: "p", Team: "x"}, alloc.Cell{Occupied: 20})

	got := GlobalStatistics(reg, m)
	want := Global{TotalCapacity: 30, TotalAllocated: 15, TotalPrerelease: 1, TimePointsCounted: 2}
	if got != want {
		t.Errorf("GlobalStatistics = %+v, want %+v", got, want)
	}
}

func TestGlobalStatisticsOrphans(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	// An entry under an unconfigured time point is ignored; an entry for a
	// deleted team under a configured one still counts.
	m.Set(alloc.Key{TimePoint: "gone", Project: "crm", Team: "fe"}, alloc.Cell{Occupied: 100})
	m.Set(alloc.Key{TimePoint: "q2", Project: "crm", Team: "deleted"}, alloc.Cell{Occupied: 2})

	got := GlobalStatistics(reg, m)
	// q1: 6+4+1.5+1+2 = 14.5, q2: 6+2 = 8.
	want := Global{TotalCapacity: 13, TotalAllocated: 11.25, TotalPrerelease: 1, TimePointsCounted: 2}
	if got != want {
		t.Errorf("GlobalStatistics = %+v, want %+v", got, want)
	}
}

func TestGlobalStatisticsEmpty(t *testing.T) {
	t.Parallel()

	reg := plan.NewRegistry([]plan.Team{{ID: "x", Capacity: 4}}, nil, nil)
	if got := GlobalStatistics(reg, alloc.New()); got != (Global{TotalCapacity: 4}) {
		t.Errorf("GlobalStatistics(empty) = %+v", got)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pct  float64
		want Band
	}{
		{0, BandNormal},
		{90, BandNormal},
		{90.5, BandWarning},
		{100, BandWarning},
		{100.1, BandOver},
		{110, BandOver},
		{111, BandCritical},
	}
	for _, tt := range tests {
		if got := Classify(tt.pct); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestDistribute(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	d := Distribute(reg, m)
	var ids []string
	for _, tp := range d.TimePoints {
		ids = append(ids, tp.ID)
	}
	if diff := cmp.Diff([]string{"q1", "q2", "q3"}, ids); diff != "" {
		t.Errorf("time point order (-want +got):\n%s", diff)
	}
	want := []Series{
		{ProjectID: "crm", Name: "CRM", Values: []float64{12, 0, 0}},
		{ProjectID: "app", Name: "App", Values: []float64{2.5, 6, 0}},
	}
	if diff := cmp.Diff(want, d.Series); diff != "" {
		t.Errorf("Distribute series (-want +got):\n%s", diff)
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	reg, m := fixture()
	m.Set(alloc.Key{TimePoint: "q3", Project: "app", Team: "fe"}, alloc.Cell{Occupied: 1, Prerelease: 3})

	issues := Check(reg, m)
	var kinds []IssueKind
	for _, is := range issues {
		kinds = append(kinds, is.Kind)
	}
	want := []IssueKind{IssueCapacity, IssueOverallocation, IssueInconsistency}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("Check kinds (-want +got):\n%s", diff)
	}
	if issues[1].TeamID != "be" || issues[1].TimePointID != "q2" {
		t.Errorf("overallocation = %+v, want be at q2", issues[1])
	}
	if issues[2].ProjectID != "app" || issues[2].Actual != 3 {
		t.Errorf("inconsistency = %+v", issues[2])
	}
}
