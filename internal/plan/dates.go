package plan

import (
	"fmt"
	"sort"
	"time"
)

// ParseMonth parses a "YYYY-MM" date as midnight UTC on the first of the month.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return t, nil
}

// ParseDay parses "YYYY-MM-DD", falling back to "YYYY-MM" (first of month).
// All results are midnight UTC.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return ParseMonth(s)
}

// SortTimePoints returns a copy of tps ordered by Date ascending. Equal dates
// keep their input order.
func SortTimePoints(tps []TimePoint) []TimePoint {
	sorted := make([]TimePoint, len(tps))
	copy(sorted, tps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// IndexOf returns the position of the time point id in tps, or -1.
func IndexOf(tps []TimePoint, id string) int {
	for i, tp := range tps {
		if tp.ID == id {
			return i
		}
	}
	return -1
}
