// Package plan defines the coordinate space of a headcount plan: teams,
// projects, and time points, held in an ordered Registry.
package plan

import "fmt"

// Status is the lifecycle stage of a project.
type Status string

// Project statuses.
const (
	StatusPlanning    Status = "planning"
	StatusDevelopment Status = "development"
	StatusRelease     Status = "release"
	StatusCompleted   Status = "completed"
)

// Pattern is the fill used to tell projects apart visually.
type Pattern string

// Project fill patterns.
const (
	PatternSolid   Pattern = "solid"
	PatternStripes Pattern = "stripes"
	PatternDots    Pattern = "dots"
)

// TimePointType classifies a time point on the plan's timeline.
type TimePointType string

// Time point types.
const (
	TypeCurrent  TimePointType = "current"
	TypePlanning TimePointType = "planning"
	TypeRelease  TimePointType = "release"
)

// Team is a pool of people. Capacity is the total concurrent headcount.
type Team struct {
	ID          string  `json:"id" toml:"id"`
	Name        string  `json:"name" toml:"name"`
	Capacity    float64 `json:"capacity" toml:"capacity"`
	Color       string  `json:"color" toml:"color"`
	Badge       string  `json:"badge,omitempty" toml:"badge,omitempty"`
	Description string  `json:"description,omitempty" toml:"description,omitempty"`
}

// Project is a unit of work that teams are allocated to. When Teams is empty
// every team applies to the project.
type Project struct {
	ID          string   `json:"id" toml:"id"`
	Name        string   `json:"name" toml:"name"`
	Status      Status   `json:"status" toml:"status"`
	Color       string   `json:"color" toml:"color"`
	Pattern     Pattern  `json:"pattern,omitempty" toml:"pattern,omitempty"`
	Teams       []string `json:"teams,omitempty" toml:"teams,omitempty"`
	ReleaseDate string   `json:"releaseDate,omitempty" toml:"release_date,omitempty"` // YYYY-MM
	Description string   `json:"description,omitempty" toml:"description,omitempty"`
}

// TimePoint is a dated column of the plan. Date is "YYYY-MM"; time points
// carry no order field and are always sequenced by Date.
type TimePoint struct {
	ID          string        `json:"id" toml:"id"`
	Name        string        `json:"name" toml:"name"`
	Date        string        `json:"date" toml:"date"`
	Type        TimePointType `json:"type" toml:"type"`
	Description string        `json:"description,omitempty" toml:"description,omitempty"`
}

// ParseStatus validates a project status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPlanning, StatusDevelopment, StatusRelease, StatusCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: status %q", ErrInvalidEnum, s)
}

// ParsePattern validates a fill pattern string. An empty string yields
// PatternSolid.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case "":
		return PatternSolid, nil
	case PatternSolid, PatternStripes, PatternDots:
		return p, nil
	}
	return "", fmt.Errorf("%w: pattern %q", ErrInvalidEnum, s)
}

// ParseTimePointType validates a time point type string.
func ParseTimePointType(s string) (TimePointType, error) {
	switch tt := TimePointType(s); tt {
	case TypeCurrent, TypePlanning, TypeRelease:
		return tt, nil
	}
	return "", fmt.Errorf("%w: time point type %q", ErrInvalidEnum, s)
}

// AppliesTo reports whether the team is shown for this project.
func (p Project) AppliesTo(teamID string) bool {
	if len(p.Teams) == 0 {
		return true
	}
	for _, id := range p.Teams {
		if id == teamID {
			return true
		}
	}
	return false
}
