// Package stats derives utilization figures from a registry and an
// allocation matrix. Every function is a pure read.
package stats

import (
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// Matrix is the read side of the allocation matrix.
type Matrix interface {
	Get(k alloc.Key) alloc.Cell
	Keys() []alloc.Key
}

// Utilization is a team's (or the whole plan's) load at one time point.
type Utilization struct {
	Used       float64 `json:"used"`
	Capacity   float64 `json:"capacity"`
	Percentage float64 `json:"percentage"`
}

// Band reports the utilization class of u.
func (u Utilization) Band() Band { return Classify(u.Percentage) }

func newUtilization(used, capacity float64) Utilization {
	u := Utilization{Used: used, Capacity: capacity}
	if capacity > 0 {
		u.Percentage = used / capacity * 100
	}
	return u
}

// TeamUtilization sums the team's occupied headcount over every registry
// project at the time point. An unknown team yields the zero Utilization.
func TeamUtilization(reg *plan.Registry, m Matrix, teamID, timePointID string) Utilization {
	team, ok := reg.Team(teamID)
	if !ok {
		return Utilization{}
	}
	var used float64
	for _, p := range reg.Projects() {
		used += m.Get(alloc.Key{TimePoint: timePointID, Project: p.ID, Team: teamID}).Occupied
	}
	return newUtilization(used, team.Capacity)
}

// OverallUtilization sums used headcount and capacity over every team at
// the time point.
func OverallUtilization(reg *plan.Registry, m Matrix, timePointID string) Utilization {
	var used, capacity float64
	for _, t := range reg.Teams() {
		u := TeamUtilization(reg, m, t.ID, timePointID)
		used += u.Used
		capacity += u.Capacity
	}
	return newUtilization(used, capacity)
}

// TeamShare is one team's occupied headcount within a project.
type TeamShare struct {
	TeamID    string  `json:"teamId"`
	TeamName  string  `json:"teamName"`
	TeamColor string  `json:"teamColor"`
	Occupied  float64 `json:"occupied"`
}

// ProjectSummary totals a project's headcount at one time point.
type ProjectSummary struct {
	ProjectID  string      `json:"projectId"`
	Occupied   float64     `json:"occupied"`
	Prerelease float64     `json:"prerelease"`
	Teams      []TeamShare `json:"teams"`
}

// Summarize totals occupied and prerelease over the project's applicable
// teams. The breakdown lists teams with occupied > 0 in registry order. It
// reports false when the project is unknown.
func Summarize(reg *plan.Registry, m Matrix, projectID, timePointID string) (ProjectSummary, bool) {
	p, ok := reg.Project(projectID)
	if !ok {
		return ProjectSummary{}, false
	}
	s := ProjectSummary{ProjectID: projectID, Teams: []TeamShare{}}
	for _, t := range reg.ProjectTeams(p) {
		c := m.Get(alloc.Key{TimePoint: timePointID, Project: projectID, Team: t.ID})
		s.Occupied += c.Occupied
		s.Prerelease += c.Prerelease
		if c.Occupied > 0 {
			s.Teams = append(s.Teams, TeamShare{TeamID: t.ID, TeamName: t.Name, TeamColor: t.Color, Occupied: c.Occupied})
		}
	}
	return s, true
}

// Global holds plan-wide figures.
//
// TotalAllocated and TotalPrerelease are per-time-point totals averaged over
// the configured time points that hold at least one entry. The totals include
// entries whose project or team is no longer registered.
type Global struct {
	TotalCapacity     float64 `json:"totalCapacity"`
	TotalAllocated    float64 `json:"totalAllocated"`
	TotalPrerelease   float64 `json:"totalPrerelease"`
	TimePointsCounted int     `json:"timePointsCounted"`
}

// GlobalStatistics computes the plan-wide figures.
func GlobalStatistics(reg *plan.Registry, m Matrix) Global {
	g := Global{TotalCapacity: reg.TotalCapacity()}

	type totals struct{ occupied, prerelease float64 }
	byTP := make(map[string]*totals)
	for _, k := range m.Keys() {
		c := m.Get(k)
		tt, ok := byTP[k.TimePoint]
		if !ok {
			tt = &totals{}
			byTP[k.TimePoint] = tt
		}
		tt.occupied += c.Occupied
		tt.prerelease += c.Prerelease
	}

	var occupied, prerelease float64
	for _, tp := range reg.TimePoints() {
		tt, ok := byTP[tp.ID]
		if !ok {
			continue
		}
		occupied += tt.occupied
		prerelease += tt.prerelease
		g.TimePointsCounted++
	}
	if g.TimePointsCounted > 0 {
		g.TotalAllocated = occupied / float64(g.TimePointsCounted)
		g.TotalPrerelease = prerelease / float64(g.TimePointsCounted)
	}
	return g
}
