// Package alloc holds the sparse allocation matrix: a mapping from
// (time point, project, team) to an occupied/prerelease headcount pair.
//
// The matrix performs no cross-cell propagation. Reconciliation between
// adjacent time points lives in package reconcile.
package alloc

import (
	"math"
	"sort"
)

// Cell is the headcount assigned to one (time point, project, team) triple.
type Cell struct {
	Occupied   float64 `json:"occupied" toml:"occupied"`
	Prerelease float64 `json:"prerelease" toml:"prerelease"`
}

// IsZero reports whether both fields are zero.
func (c Cell) IsZero() bool { return c.Occupied == 0 && c.Prerelease == 0 }

// Key addresses one cell of the matrix.
type Key struct {
	TimePoint string `json:"timePoint"`
	Project   string `json:"project"`
	Team      string `json:"team"`
}

// String renders the key as "timePoint/project/team".
func (k Key) String() string { return k.TimePoint + "/" + k.Project + "/" + k.Team }

// Less orders keys by time point, then project, then team.
func (k Key) Less(o Key) bool {
	if k.TimePoint != o.TimePoint {
		return k.TimePoint < o.TimePoint
	}
	if k.Project != o.Project {
		return k.Project < o.Project
	}
	return k.Team < o.Team
}

// Matrix is a sparse allocation matrix keyed by a composite Key. An absent
// entry reads as the zero Cell. The zero value is ready to use.
//
// A Matrix is not safe for concurrent use.
type Matrix struct {
	cells map[Key]Cell
}

// New returns an empty matrix.
func New() *Matrix {
	return &Matrix{cells: make(map[Key]Cell)}
}

// FromNested builds a matrix from the nested wire shape.
func FromNested(n Nested) *Matrix {
	m := New()
	m.BulkReplace(n)
	return m
}

// Get returns the cell at k, or the zero cell when absent.
func (m *Matrix) Get(k Key) Cell {
	return m.cells[k]
}

// Lookup returns the cell at k and whether an entry exists.
func (m *Matrix) Lookup(k Key) (Cell, bool) {
	c, ok := m.cells[k]
	return c, ok
}

// Set replaces the cell at k wholesale. NaN fields are stored as 0.
func (m *Matrix) Set(k Key, c Cell) {
	if m.cells == nil {
		m.cells = make(map[Key]Cell)
	}
	m.cells[k] = Cell{Occupied: finite(c.Occupied), Prerelease: finite(c.Prerelease)}
}

// BulkReplace discards every entry and loads n. No reconciliation is applied.
func (m *Matrix) BulkReplace(n Nested) {
	m.cells = make(map[Key]Cell)
	for tp, projects := range n {
		for p, teams := range projects {
			for team, c := range teams {
				m.Set(Key{TimePoint: tp, Project: p, Team: team}, c)
			}
		}
	}
}

// Len returns the number of stored entries.
func (m *Matrix) Len() int { return len(m.cells) }

// Keys returns every stored key in Key.Less order.
func (m *Matrix) Keys() []Key {
	keys := make([]Key, 0, len(m.cells))
	for k := range m.cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// TimePointIDs returns the distinct time point ids that have at least one
// entry, sorted.
func (m *Matrix) TimePointIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for k := range m.cells {
		if !seen[k.TimePoint] {
			seen[k.TimePoint] = true
			ids = append(ids, k.TimePoint)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{cells: make(map[Key]Cell, len(m.cells))}
	for k, v := range m.cells {
		c.cells[k] = v
	}
	return c
}

// Nested converts the matrix to the nested wire shape.
func (m *Matrix) Nested() Nested {
	n := make(Nested)
	for k, c := range m.cells {
		projects, ok := n[k.TimePoint]
		if !ok {
			projects = make(map[string]map[string]Cell)
			n[k.TimePoint] = projects
		}
		teams, ok := projects[k.Project]
		if !ok {
			teams = make(map[string]Cell)
			projects[k.Project] = teams
		}
		teams[k.Team] = c
	}
	return n
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
