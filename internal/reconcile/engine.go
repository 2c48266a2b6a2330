// Package reconcile applies a cell edit to the allocation matrix and keeps
// chronologically adjacent cells consistent with it.
//
// Rules, in order, for an edit at sorted time point index i:
//
//  1. The value is clamped to >= 0. A prerelease value is further clamped to
//     the cell's current occupied.
//  2. A prerelease edit rewrites occupied at i+1 as
//     max(0, occupied[i] - prerelease[i]). Exactly one hop; the next cell's
//     own prerelease is kept unless it now exceeds its occupied.
//  3. An occupied edit adjusts prerelease at i-1 so that the previous period
//     releases the difference.
//  4. An occupied edit clamps the same cell's prerelease to the new occupied.
package reconcile

import (
	"math"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// Reason says why a cell was written during an edit.
type Reason string

// Write reasons.
const (
	ReasonEdit     Reason = "edit"
	ReasonForward  Reason = "forward"
	ReasonBackward Reason = "backward"
	ReasonClamp    Reason = "clamp"
)

// Write records one cell mutation.
type Write struct {
	Key    alloc.Key  `json:"key"`
	Before alloc.Cell `json:"before"`
	After  alloc.Cell `json:"after"`
	Reason Reason     `json:"reason"`
}

// Result lists every write an edit produced, in the order applied.
type Result struct {
	Writes []Write `json:"writes"`
}

// Cell returns the final value written to k, if the edit touched it.
func (r Result) Cell(k alloc.Key) (alloc.Cell, bool) {
	for i := len(r.Writes) - 1; i >= 0; i-- {
		if r.Writes[i].Key == k {
			return r.Writes[i].After, true
		}
	}
	return alloc.Cell{}, false
}

// Neighbours counts the distinct cells other than k that the edit wrote.
func (r Result) Neighbours(k alloc.Key) int {
	seen := make(map[alloc.Key]bool, len(r.Writes))
	for _, w := range r.Writes {
		if w.Key != k {
			seen[w.Key] = true
		}
	}
	return len(seen)
}

// Timeline supplies the date-sorted time point sequence.
type Timeline interface {
	SortedTimePoints() []plan.TimePoint
}

// Engine applies edits to a matrix. It is not safe for concurrent use.
type Engine struct {
	timeline Timeline
	matrix   *alloc.Matrix
}

// NewEngine creates an engine over the given timeline and matrix.
func NewEngine(timeline Timeline, matrix *alloc.Matrix) *Engine {
	return &Engine{timeline: timeline, matrix: matrix}
}

// SetCell commits value to one field of the cell at k and propagates. It
// never fails: non-finite input is treated as 0 and negatives are clamped.
func (e *Engine) SetCell(k alloc.Key, field alloc.Field, value float64) Result {
	var res Result
	write := func(key alloc.Key, after alloc.Cell, why Reason) {
		before := e.matrix.Get(key)
		e.matrix.Set(key, after)
		res.Writes = append(res.Writes, Write{Key: key, Before: before, After: after, Reason: why})
	}

	final := clampValue(value)
	cur := e.matrix.Get(k)
	next := cur
	if field == alloc.Prerelease {
		next.Prerelease = math.Min(final, cur.Occupied)
	} else {
		next.Occupied = final
	}
	write(k, next, ReasonEdit)

	sorted := e.timeline.SortedTimePoints()
	i := plan.IndexOf(sorted, k.TimePoint)

	if field == alloc.Prerelease {
		if i >= 0 && i < len(sorted)-1 {
			nk := alloc.Key{TimePoint: sorted[i+1].ID, Project: k.Project, Team: k.Team}
			nc := e.matrix.Get(nk)
			nc.Occupied = math.Max(0, next.Occupied-next.Prerelease)
			if nc.Prerelease > nc.Occupied {
				nc.Prerelease = nc.Occupied
			}
			write(nk, nc, ReasonForward)
		}
		return res
	}

	if i > 0 {
		pk := alloc.Key{TimePoint: sorted[i-1].ID, Project: k.Project, Team: k.Team}
		pc := e.matrix.Get(pk)
		switch {
		case final < pc.Occupied:
			pc.Prerelease = pc.Occupied - final
			write(pk, pc, ReasonBackward)
		case final == pc.Occupied && pc.Prerelease > 0:
			pc.Prerelease = 0
			write(pk, pc, ReasonBackward)
		}
	}

	if next.Prerelease > final {
		next.Prerelease = final
		write(k, next, ReasonClamp)
	}
	return res
}

func clampValue(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, v)
}
