package workspace

import (
	"fmt"

	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/telemetry"
)

// EntityKind names one of the three registry collections.
type EntityKind string

// Entity kinds.
const (
	EntityTeam      EntityKind = "team"
	EntityProject   EntityKind = "project"
	EntityTimePoint EntityKind = "timepoint"
)

type entityEvent struct {
	Entity EntityKind `json:"entity"`
	Value  any        `json:"value,omitempty"`
}

// AddTeam appends a team, generating its id when empty.
func (w *Workspace) AddTeam(t plan.Team) plan.Team {
	w.mu.Lock()
	t = w.reg.AddTeam(t)
	w.mu.Unlock()
	w.record(telemetry.KindEntityAdded, t.ID, entityEvent{Entity: EntityTeam, Value: t})
	return t
}

// AddProject appends a project, generating its id when empty.
func (w *Workspace) AddProject(p plan.Project) plan.Project {
	w.mu.Lock()
	p = w.reg.AddProject(p)
	w.mu.Unlock()
	w.record(telemetry.KindEntityAdded, p.ID, entityEvent{Entity: EntityProject, Value: p})
	return p
}

// AddTimePoint appends a time point, generating its id when empty.
func (w *Workspace) AddTimePoint(tp plan.TimePoint) plan.TimePoint {
	w.mu.Lock()
	tp = w.reg.AddTimePoint(tp)
	w.mu.Unlock()
	w.record(telemetry.KindEntityAdded, tp.ID, entityEvent{Entity: EntityTimePoint, Value: tp})
	return tp
}

// UpdateTeam shallow-merges patch over a team.
func (w *Workspace) UpdateTeam(id string, patch plan.TeamPatch) (plan.Team, error) {
	w.mu.Lock()
	t, err := w.reg.UpdateTeam(id, patch)
	w.mu.Unlock()
	if err != nil {
		return plan.Team{}, fmt.Errorf("workspace: update team: %w", err)
	}
	w.record(telemetry.KindEntityUpdated, id, entityEvent{Entity: EntityTeam, Value: t})
	return t, nil
}

// UpdateProject shallow-merges patch over a project.
func (w *Workspace) UpdateProject(id string, patch plan.ProjectPatch) (plan.Project, error) {
	w.mu.Lock()
	p, err := w.reg.UpdateProject(id, patch)
	w.mu.Unlock()
	if err != nil {
		return plan.Project{}, fmt.Errorf("workspace: update project: %w", err)
	}
	w.record(telemetry.KindEntityUpdated, id, entityEvent{Entity: EntityProject, Value: p})
	return p, nil
}

// UpdateTimePoint shallow-merges patch over a time point.
func (w *Workspace) UpdateTimePoint(id string, patch plan.TimePointPatch) (plan.TimePoint, error) {
	w.mu.Lock()
	tp, err := w.reg.UpdateTimePoint(id, patch)
	w.mu.Unlock()
	if err != nil {
		return plan.TimePoint{}, fmt.Errorf("workspace: update time point: %w", err)
	}
	w.record(telemetry.KindEntityUpdated, id, entityEvent{Entity: EntityTimePoint, Value: tp})
	return tp, nil
}

// Remove deletes an entity. Allocation entries referencing it are kept.
func (w *Workspace) Remove(kind EntityKind, id string) error {
	w.mu.Lock()
	var err error
	switch kind {
	case EntityTeam:
		err = w.reg.RemoveTeam(id)
	case EntityProject:
		err = w.reg.RemoveProject(id)
	case EntityTimePoint:
		err = w.reg.RemoveTimePoint(id)
	default:
		err = fmt.Errorf("unknown entity kind %q", kind)
	}
	w.mu.Unlock()
	if err != nil {
		return fmt.Errorf("workspace: remove %s: %w", kind, err)
	}
	w.record(telemetry.KindEntityRemoved, id, entityEvent{Entity: kind})
	return nil
}
