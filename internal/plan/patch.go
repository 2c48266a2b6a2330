package plan

import "fmt"

// TeamPatch lists the team fields to overwrite. Nil fields are left alone.
type TeamPatch struct {
	Name        *string
	Capacity    *float64
	Color       *string
	Badge       *string
	Description *string
}

// ProjectPatch lists the project fields to overwrite. Nil fields are left alone.
type ProjectPatch struct {
	Name        *string
	Status      *Status
	Color       *string
	Pattern     *Pattern
	Teams       *[]string
	ReleaseDate *string
	Description *string
}

// TimePointPatch lists the time point fields to overwrite. Nil fields are
// left alone.
type TimePointPatch struct {
	Name        *string
	Date        *string
	Type        *TimePointType
	Description *string
}

// UpdateTeam shallow-merges patch over the team with the given id.
func (r *Registry) UpdateTeam(id string, patch TeamPatch) (Team, error) {
	for i := range r.teams {
		if r.teams[i].ID != id {
			continue
		}
		t := &r.teams[i]
		setIf(&t.Name, patch.Name)
		setIf(&t.Capacity, patch.Capacity)
		setIf(&t.Color, patch.Color)
		setIf(&t.Badge, patch.Badge)
		setIf(&t.Description, patch.Description)
		return *t, nil
	}
	return Team{}, fmt.Errorf("%w: team %s", ErrNotFound, id)
}

// UpdateProject shallow-merges patch over the project with the given id.
func (r *Registry) UpdateProject(id string, patch ProjectPatch) (Project, error) {
	for i := range r.projects {
		if r.projects[i].ID != id {
			continue
		}
		p := &r.projects[i]
		setIf(&p.Name, patch.Name)
		setIf(&p.Status, patch.Status)
		setIf(&p.Color, patch.Color)
		setIf(&p.Pattern, patch.Pattern)
		if patch.Teams != nil {
			p.Teams = append([]string(nil), (*patch.Teams)...)
		}
		setIf(&p.ReleaseDate, patch.ReleaseDate)
		setIf(&p.Description, patch.Description)
		return cloneProject(*p), nil
	}
	return Project{}, fmt.Errorf("%w: project %s", ErrNotFound, id)
}

// UpdateTimePoint shallow-merges patch over the time point with the given id.
func (r *Registry) UpdateTimePoint(id string, patch TimePointPatch) (TimePoint, error) {
	for i := range r.timePoints {
		if r.timePoints[i].ID != id {
			continue
		}
		tp := &r.timePoints[i]
		setIf(&tp.Name, patch.Name)
		setIf(&tp.Date, patch.Date)
		setIf(&tp.Type, patch.Type)
		setIf(&tp.Description, patch.Description)
		return *tp, nil
	}
	return TimePoint{}, fmt.Errorf("%w: time point %s", ErrNotFound, id)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
