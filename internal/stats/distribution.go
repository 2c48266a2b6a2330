package stats

import (
	"fmt"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// Series is one project's occupied headcount across the sorted time points.
type Series struct {
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Values    []float64 `json:"values"`
}

// Distribution is the per-project headcount over time.
type Distribution struct {
	TimePoints []plan.TimePoint `json:"timePoints"`
	Series     []Series         `json:"series"`
}

// Distribute sums occupied over every registry team for each project at
// each date-sorted time point.
func Distribute(reg *plan.Registry, m Matrix) Distribution {
	sorted := reg.SortedTimePoints()
	teams := reg.Teams()
	d := Distribution{TimePoints: sorted, Series: []Series{}}
	for _, p := range reg.Projects() {
		s := Series{ProjectID: p.ID, Name: p.Name, Color: p.Color, Values: make([]float64, len(sorted))}
		for i, tp := range sorted {
			for _, t := range teams {
				s.Values[i] += m.Get(alloc.Key{TimePoint: tp.ID, Project: p.ID, Team: t.ID}).Occupied
			}
		}
		d.Series = append(d.Series, s)
	}
	return d
}

// IssueKind classifies a consistency finding.
type IssueKind string

// Issue kinds.
const (
	IssueOverallocation IssueKind = "team_overallocation"
	IssueInconsistency  IssueKind = "data_inconsistency"
	IssueCapacity       IssueKind = "capacity_warning"
)

// Issue is one finding reported by Check.
type Issue struct {
	Kind        IssueKind `json:"type"`
	Message     string    `json:"message"`
	TeamID      string    `json:"teamId,omitempty"`
	ProjectID   string    `json:"projectId,omitempty"`
	TimePointID string    `json:"timePointId,omitempty"`
	Expected    float64   `json:"expected"`
	Actual      float64   `json:"actual"`
}

// Check scans the plan for teams loaded past capacity (over 100% is an
// overallocation, the warning band a capacity warning) and for cells whose
// prerelease exceeds occupied. Findings are ordered by time point, then team.
// Inconsistent cells follow in key order.
func Check(reg *plan.Registry, m Matrix) []Issue {
	var issues []Issue
	for _, tp := range reg.SortedTimePoints() {
		for _, t := range reg.Teams() {
			u := TeamUtilization(reg, m, t.ID, tp.ID)
			switch u.Band() {
			case BandOver, BandCritical:
				issues = append(issues, Issue{
					Kind:        IssueOverallocation,
					Message:     fmt.Sprintf("%s is at %.0f%% of capacity in %s", t.Name, u.Percentage, tp.Name),
					TeamID:      t.ID,
					TimePointID: tp.ID,
					Expected:    u.Capacity,
					Actual:      u.Used,
				})
			case BandWarning:
				issues = append(issues, Issue{
					Kind:        IssueCapacity,
					Message:     fmt.Sprintf("%s is near capacity (%.0f%%) in %s", t.Name, u.Percentage, tp.Name),
					TeamID:      t.ID,
					TimePointID: tp.ID,
					Expected:    u.Capacity,
					Actual:      u.Used,
				})
			}
		}
	}
	for _, k := range m.Keys() {
		c := m.Get(k)
		if c.Prerelease > c.Occupied {
			issues = append(issues, Issue{
				Kind:        IssueInconsistency,
				Message:     fmt.Sprintf("prerelease %g exceeds occupied %g at %s", c.Prerelease, c.Occupied, k),
				TeamID:      k.Team,
				ProjectID:   k.Project,
				TimePointID: k.TimePoint,
				Expected:    c.Occupied,
				Actual:      c.Prerelease,
			})
		}
	}
	return issues
}
