package plan

import (
	"fmt"

	"github.com/google/uuid"
)

// Registry holds the teams, projects, and time points of a plan in
// insertion order. Registry order is the tie-break for every greedy
// computation downstream, so it is preserved across all operations.
//
// A Registry is not safe for concurrent use; workspace.Workspace guards it.
type Registry struct {
	teams      []Team
	projects   []Project
	timePoints []TimePoint
	newID      func() string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithIDFunc overrides the id generator used by the Add* methods.
func WithIDFunc(fn func() string) RegistryOption {
	return func(r *Registry) { r.newID = fn }
}

// NewRegistry creates a registry seeded with the given entities. The slices
// are copied.
func NewRegistry(teams []Team, projects []Project, timePoints []TimePoint, opts ...RegistryOption) *Registry {
	r := &Registry{newID: NewID}
	for _, o := range opts {
		o(r)
	}
	r.Replace(teams, projects, timePoints)
	return r
}

// NewID returns a time-ordered unique id (UUIDv7: millisecond timestamp
// followed by random bits).
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Replace swaps all three collections wholesale.
func (r *Registry) Replace(teams []Team, projects []Project, timePoints []TimePoint) {
	r.teams = append([]Team(nil), teams...)
	r.projects = make([]Project, len(projects))
	for i, p := range projects {
		r.projects[i] = cloneProject(p)
	}
	r.timePoints = append([]TimePoint(nil), timePoints...)
}

// Teams returns a copy of the teams in registry order.
func (r *Registry) Teams() []Team { return append([]Team(nil), r.teams...) }

// Projects returns a copy of the projects in registry order.
func (r *Registry) Projects() []Project {
	out := make([]Project, len(r.projects))
	for i, p := range r.projects {
		out[i] = cloneProject(p)
	}
	return out
}

// TimePoints returns a copy of the time points in registry order.
func (r *Registry) TimePoints() []TimePoint { return append([]TimePoint(nil), r.timePoints...) }

// SortedTimePoints returns the time points ordered by date ascending.
func (r *Registry) SortedTimePoints() []TimePoint { return SortTimePoints(r.timePoints) }

// Team looks up a team by id.
func (r *Registry) Team(id string) (Team, bool) {
	for _, t := range r.teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// Project looks up a project by id.
func (r *Registry) Project(id string) (Project, bool) {
	for _, p := range r.projects {
		if p.ID == id {
			return cloneProject(p), true
		}
	}
	return Project{}, false
}

// TimePoint looks up a time point by id.
func (r *Registry) TimePoint(id string) (TimePoint, bool) {
	for _, tp := range r.timePoints {
		if tp.ID == id {
			return tp, true
		}
	}
	return TimePoint{}, false
}

// TotalCapacity sums the capacity of every team.
func (r *Registry) TotalCapacity() float64 {
	var total float64
	for _, t := range r.teams {
		total += t.Capacity
	}
	return total
}

// ProjectTeams returns the teams that apply to p, in registry team order.
func (r *Registry) ProjectTeams(p Project) []Team {
	if len(p.Teams) == 0 {
		return r.Teams()
	}
	var out []Team
	for _, t := range r.teams {
		if p.AppliesTo(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// AddTeam appends a team. An empty ID is replaced with a generated one.
func (r *Registry) AddTeam(t Team) Team {
	if t.ID == "" {
		t.ID = r.newID()
	}
	r.teams = append(r.teams, t)
	return t
}

// AddProject appends a project. An empty ID is replaced with a generated one
// and an empty Pattern defaults to solid.
func (r *Registry) AddProject(p Project) Project {
	if p.ID == "" {
		p.ID = r.newID()
	}
	if p.Pattern == "" {
		p.Pattern = PatternSolid
	}
	p = cloneProject(p)
	r.projects = append(r.projects, p)
	return cloneProject(p)
}

// AddTimePoint appends a time point. An empty ID is replaced with a generated one.
func (r *Registry) AddTimePoint(tp TimePoint) TimePoint {
	if tp.ID == "" {
		tp.ID = r.newID()
	}
	r.timePoints = append(r.timePoints, tp)
	return tp
}

// RemoveTeam deletes a team. Allocation entries that reference it are left
// in place.
func (r *Registry) RemoveTeam(id string) error {
	for i, t := range r.teams {
		if t.ID == id {
			r.teams = append(r.teams[:i], r.teams[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: team %s", ErrNotFound, id)
}

// RemoveProject deletes a project without touching allocations.
func (r *Registry) RemoveProject(id string) error {
	for i, p := range r.projects {
		if p.ID == id {
			r.projects = append(r.projects[:i], r.projects[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: project %s", ErrNotFound, id)
}

// RemoveTimePoint deletes a time point without touching allocations.
func (r *Registry) RemoveTimePoint(id string) error {
	for i, tp := range r.timePoints {
		if tp.ID == id {
			r.timePoints = append(r.timePoints[:i], r.timePoints[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: time point %s", ErrNotFound, id)
}

func cloneProject(p Project) Project {
	if p.Teams != nil {
		p.Teams = append([]string(nil), p.Teams...)
	}
	return p
}
