// Package workspace owns a live plan: the entity registry, the allocation
// matrix, and the reconciliation engine over them. A Workspace is the single
// locking boundary for the plan; every cell edit and its propagation happen
// in one critical section, so concurrent readers never observe a partially
// propagated edit.
package workspace

import (
	"fmt"
	"sync"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/persondays"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/reconcile"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/store"
	"github.com/papapumpkin/manpower/internal/telemetry"
)

// Workspace is a plan held in memory. It is safe for concurrent use.
type Workspace struct {
	mu     sync.RWMutex
	meta   Metadata
	reg    *plan.Registry
	matrix *alloc.Matrix
	engine *reconcile.Engine
	events *telemetry.Emitter
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithEmitter records every mutation to em. A nil emitter disables
// telemetry.
func WithEmitter(em *telemetry.Emitter) Option {
	return func(w *Workspace) { w.events = em }
}

// New creates a workspace holding doc.
func New(doc Document, opts ...Option) *Workspace {
	w := &Workspace{
		meta:   doc.Metadata,
		reg:    plan.NewRegistry(doc.Teams, doc.Projects, doc.TimePoints),
		matrix: alloc.FromNested(doc.Allocations),
	}
	w.engine = reconcile.NewEngine(w.reg, w.matrix)
	for _, o := range opts {
		o(w)
	}
	return w
}

// Get returns the cell at k, or the zero cell when absent.
func (w *Workspace) Get(k alloc.Key) alloc.Cell {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.matrix.Get(k)
}

// SetCell commits value to one field of the cell at k and applies every
// reconciliation rule before releasing the lock.
func (w *Workspace) SetCell(k alloc.Key, field alloc.Field, value float64) reconcile.Result {
	w.mu.Lock()
	res := w.engine.SetCell(k, field, value)
	w.mu.Unlock()

	w.record(telemetry.KindCellEdit, k.String(), map[string]any{"field": field, "value": value})
	for _, wr := range res.Writes {
		w.record(telemetry.KindCellWrite, wr.Key.String(), wr)
	}
	return res
}

// BulkReplace swaps the whole allocation matrix without reconciliation.
func (w *Workspace) BulkReplace(n alloc.Nested) {
	w.mu.Lock()
	w.matrix.BulkReplace(n)
	cells := w.matrix.Len()
	w.mu.Unlock()

	w.record(telemetry.KindMatrixReplaced, "", map[string]int{"cells": cells})
}

// Read runs fn with read access to the registry and matrix. fn must not
// mutate or retain either.
func (w *Workspace) Read(fn func(*plan.Registry, *alloc.Matrix)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.reg, w.matrix)
}

// Replace swaps the entire plan for doc.
func (w *Workspace) Replace(doc Document) {
	w.mu.Lock()
	w.meta = doc.Metadata
	w.reg.Replace(doc.Teams, doc.Projects, doc.TimePoints)
	w.matrix.BulkReplace(doc.Allocations)
	cells := w.matrix.Len()
	w.mu.Unlock()

	w.record(telemetry.KindMatrixReplaced, "", map[string]int{"cells": cells})
}

// Document returns a copy of the plan in its persisted shape.
func (w *Workspace) Document() Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Document{
		Metadata:    w.meta,
		Teams:       w.reg.Teams(),
		Projects:    w.reg.Projects(),
		TimePoints:  w.reg.TimePoints(),
		Allocations: w.matrix.Nested(),
	}
}

// Snapshot returns the plan as a store snapshot.
func (w *Workspace) Snapshot() store.Snapshot {
	return w.Document().Snapshot()
}

// TeamUtilization reports a team's load at a time point.
func (w *Workspace) TeamUtilization(teamID, timePointID string) stats.Utilization {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return stats.TeamUtilization(w.reg, w.matrix, teamID, timePointID)
}

// OverallUtilization reports the whole organization's load at a time point.
func (w *Workspace) OverallUtilization(timePointID string) stats.Utilization {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return stats.OverallUtilization(w.reg, w.matrix, timePointID)
}

// ProjectSummary totals a project at a time point.
func (w *Workspace) ProjectSummary(projectID, timePointID string) (stats.ProjectSummary, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return stats.Summarize(w.reg, w.matrix, projectID, timePointID)
}

// Statistics returns the plan-wide figures.
func (w *Workspace) Statistics() stats.Global {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return stats.GlobalStatistics(w.reg, w.matrix)
}

// Flow builds the flow graph.
func (w *Workspace) Flow(f flow.Filter) flow.Graph {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return flow.Build(w.reg, w.matrix, f)
}

// PersonDays accumulates person-day series over the selected time points.
func (w *Workspace) PersonDays(selected []string, endDate string) ([]persondays.Series, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	series, err := persondays.Accumulate(w.reg, w.matrix, selected, endDate)
	if err != nil {
		return nil, fmt.Errorf("workspace: person days: %w", err)
	}
	return series, nil
}

// DefaultEndDate returns the default person-day end date for the plan.
func (w *Workspace) DefaultEndDate() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return persondays.DefaultEndDate(w.reg.TimePoints())
}

// record emits a telemetry event. Telemetry failures never fail a plan
// operation.
func (w *Workspace) record(kind, subject string, data any) {
	_ = w.events.Record(kind, subject, data)
}
