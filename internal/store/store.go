// Package store persists plan snapshots in a local SQLite database.
//
// The database holds exactly one current plan (entity tables plus the
// allocation table) and an append-only history of saves.
package store

import (
	"errors"
	"time"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("store: no snapshot saved")

// Snapshot is a complete plan: the three entity collections in registry
// order and the allocation matrix in its nested shape.
type Snapshot struct {
	Teams       []plan.Team      `json:"teams"`
	Projects    []plan.Project   `json:"projects"`
	TimePoints  []plan.TimePoint `json:"timePoints"`
	Allocations alloc.Nested     `json:"allocations"`
}

// Cells counts the allocation entries in the snapshot.
func (s Snapshot) Cells() int {
	n := 0
	for _, projects := range s.Allocations {
		for _, teams := range projects {
			n += len(teams)
		}
	}
	return n
}

// SaveRecord describes one entry of the save history.
type SaveRecord struct {
	ID         int64     `json:"id"`
	Label      string    `json:"label"`
	SavedAt    time.Time `json:"savedAt"`
	Teams      int       `json:"teams"`
	Projects   int       `json:"projects"`
	TimePoints int       `json:"timePoints"`
	Cells      int       `json:"cells"`
}
