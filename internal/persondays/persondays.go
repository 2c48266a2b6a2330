// Package persondays converts occupancy between time points into cumulative
// person-day totals per project, split into segments for stacked rendering.
package persondays

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
)

// FallbackDays is the length of a segment with no explicit end: the only
// segment when a single time point is selected, or the last one when no end
// date is given.
const FallbackDays = 30

// Matrix is the read side of the allocation matrix.
type Matrix interface {
	Get(k alloc.Key) alloc.Cell
}

// Segment is one time span of a project's person-day bar.
type Segment struct {
	Name     string  `json:"name"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Manpower float64 `json:"manpower"`
	Days     int     `json:"days"`
	ManDays  float64 `json:"manDays"`
	Color    string  `json:"color"`
}

// Series is one project's person-day breakdown.
type Series struct {
	ProjectID   string    `json:"projectId"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Color       string    `json:"color"`
	Pattern     string    `json:"pattern"`
	ReleaseDate string    `json:"releaseDate,omitempty"`
	Total       float64   `json:"total"`
	Segments    []Segment `json:"segments"`
}

// Accumulate computes person-day series for every registry project over the
// selected time points. An empty selection selects every time point; unknown
// ids are ignored.
//
// Each segment spans a selected time point to the next, with manpower being
// the project's occupied total over all registry teams at its start. The
// last segment runs to endDate ("YYYY-MM-DD" or "YYYY-MM"), or FallbackDays
// when endDate is empty. A single selected point yields one FallbackDays
// segment. Series are sorted by total, largest first; ties keep registry
// order.
func Accumulate(reg *plan.Registry, m Matrix, selected []string, endDate string) ([]Series, error) {
	points := selectPoints(reg.SortedTimePoints(), selected)

	dates := make([]time.Time, len(points))
	for i, tp := range points {
		d, err := plan.ParseDay(tp.Date)
		if err != nil {
			return nil, fmt.Errorf("persondays: time point %s: %w", tp.ID, err)
		}
		dates[i] = d
	}
	var end time.Time
	if endDate != "" {
		d, err := plan.ParseDay(endDate)
		if err != nil {
			return nil, fmt.Errorf("persondays: end date: %w", err)
		}
		end = d
	}

	teams := reg.Teams()
	manpower := func(tpID, projectID string) float64 {
		var sum float64
		for _, t := range teams {
			sum += m.Get(alloc.Key{TimePoint: tpID, Project: projectID, Team: t.ID}).Occupied
		}
		return sum
	}

	projects := reg.Projects()
	out := make([]Series, 0, len(projects))
	for _, p := range projects {
		s := Series{
			ProjectID:   p.ID,
			Name:        p.Name,
			Status:      string(p.Status),
			Color:       p.Color,
			Pattern:     string(p.Pattern),
			ReleaseDate: p.ReleaseDate,
			Segments:    []Segment{},
		}
		colors := Ramp(p.Color, len(points))
		add := func(seg Segment, i int) {
			seg.ManDays = seg.Manpower * float64(seg.Days)
			seg.Color = colors[i]
			s.Total += seg.ManDays
			s.Segments = append(s.Segments, seg)
		}

		switch {
		case len(points) == 1:
			tp := points[0]
			add(Segment{
				Name:     fmt.Sprintf("%s (%dd)", tp.Name, FallbackDays),
				From:     tp.Name,
				To:       fmt.Sprintf("(%dd)", FallbackDays),
				Manpower: manpower(tp.ID, p.ID),
				Days:     FallbackDays,
			}, 0)
		case len(points) > 1:
			for i := 0; i < len(points)-1; i++ {
				cur, next := points[i], points[i+1]
				add(Segment{
					Name:     cur.Name + " → " + next.Name,
					From:     cur.Name,
					To:       next.Name,
					Manpower: manpower(cur.ID, p.ID),
					Days:     daysBetween(dates[i], dates[i+1]),
				}, i)
			}
			last := len(points) - 1
			seg := Segment{
				From:     points[last].Name,
				To:       "end",
				Manpower: manpower(points[last].ID, p.ID),
				Days:     FallbackDays,
			}
			if !end.IsZero() {
				seg.To = end.Format("Jan 2")
				seg.Days = daysBetween(dates[last], end)
			}
			seg.Name = seg.From + " → " + seg.To
			add(seg, last)
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// DefaultEndDate returns December 31 of the last time point's year as
// "YYYY-12-31", or "" when there are no time points or the last date is
// malformed.
func DefaultEndDate(tps []plan.TimePoint) string {
	if len(tps) == 0 {
		return ""
	}
	sorted := plan.SortTimePoints(tps)
	d, err := plan.ParseDay(sorted[len(sorted)-1].Date)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%d-12-31", d.Year())
}

func selectPoints(sorted []plan.TimePoint, ids []string) []plan.TimePoint {
	if len(ids) == 0 {
		return sorted
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []plan.TimePoint
	for _, tp := range sorted {
		if want[tp.ID] {
			out = append(out, tp)
		}
	}
	return out
}

// daysBetween is the absolute distance in days, rounded up.
func daysBetween(a, b time.Time) int {
	return int(math.Ceil(math.Abs(b.Sub(a).Hours()) / 24))
}
