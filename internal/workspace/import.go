package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/telemetry"
	"github.com/pelletier/go-toml/v2"
)

// Entities is the configuration part of a plan: the three registry
// collections without allocations.
type Entities struct {
	Teams      []plan.Team      `json:"teams" toml:"teams"`
	Projects   []plan.Project   `json:"projects" toml:"projects"`
	TimePoints []plan.TimePoint `json:"timePoints" toml:"time_points"`
}

// rawTeam keeps Capacity untyped so a non-numeric capacity drops the team
// instead of failing the whole import.
type rawTeam struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Capacity    any    `json:"capacity" toml:"capacity"`
	Color       string `json:"color" toml:"color"`
	Badge       string `json:"badge" toml:"badge"`
	Description string `json:"description" toml:"description"`
}

type rawProject struct {
	ID          string   `json:"id" toml:"id"`
	Name        string   `json:"name" toml:"name"`
	Status      string   `json:"status" toml:"status"`
	Color       string   `json:"color" toml:"color"`
	Pattern     string   `json:"pattern" toml:"pattern"`
	Teams       []string `json:"teams" toml:"teams"`
	ReleaseDate string   `json:"releaseDate" toml:"release_date"`
	Description string   `json:"description" toml:"description"`
}

type rawTimePoint struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Date        string `json:"date" toml:"date"`
	Type        string `json:"type" toml:"type"`
	Description string `json:"description" toml:"description"`
}

type wireEntities struct {
	Teams      *[]rawTeam      `json:"teams" toml:"teams"`
	Projects   *[]rawProject   `json:"projects" toml:"projects"`
	TimePoints *[]rawTimePoint `json:"timePoints" toml:"time_points"`
}

// ParseEntities decodes and validates a configuration document.
//
// The teams, projects, and timePoints collections must all be present.
// Entities missing a required field, or carrying an unknown enum value or a
// malformed date, are dropped and reported as warnings. Teams need a name,
// a numeric capacity, and a color; projects a name, status, and color; time
// points a name, date, and type. Missing ids are generated and an empty
// pattern becomes solid. If nothing survives, ErrEmptyImport is returned.
func ParseEntities(data []byte, f Format) (Entities, []string, error) {
	var w wireEntities
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &w)
	case FormatTOML:
		err = toml.Unmarshal(data, &w)
	default:
		return Entities{}, nil, fmt.Errorf("workspace: %w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return Entities{}, nil, fmt.Errorf("workspace: %w: %v", ErrMalformedDocument, err)
	}
	if w.Teams == nil || w.Projects == nil || w.TimePoints == nil {
		return Entities{}, nil, fmt.Errorf("workspace: %w: teams, projects, and timePoints are required", ErrMalformedDocument)
	}

	var warnings []string
	warn := func(format string, args ...any) { warnings = append(warnings, fmt.Sprintf(format, args...)) }

	e := Entities{Teams: []plan.Team{}, Projects: []plan.Project{}, TimePoints: []plan.TimePoint{}}
	for i, rt := range *w.Teams {
		capacity, ok := number(rt.Capacity)
		if rt.Name == "" || rt.Color == "" || !ok {
			warn("team %d (%q): requires name, numeric capacity, and color", i, rt.Name)
			continue
		}
		e.Teams = append(e.Teams, plan.Team{
			ID:          orNewID(rt.ID),
			Name:        rt.Name,
			Capacity:    capacity,
			Color:       rt.Color,
			Badge:       rt.Badge,
			Description: rt.Description,
		})
	}
	for i, rp := range *w.Projects {
		if rp.Name == "" || rp.Status == "" || rp.Color == "" {
			warn("project %d (%q): requires name, status, and color", i, rp.Name)
			continue
		}
		status, err := plan.ParseStatus(rp.Status)
		if err != nil {
			warn("project %d (%q): %v", i, rp.Name, err)
			continue
		}
		pattern, err := plan.ParsePattern(rp.Pattern)
		if err != nil {
			warn("project %d (%q): %v", i, rp.Name, err)
			continue
		}
		var teams []string
		if len(rp.Teams) > 0 {
			teams = append(teams, rp.Teams...)
		}
		e.Projects = append(e.Projects, plan.Project{
			ID:          orNewID(rp.ID),
			Name:        rp.Name,
			Status:      status,
			Color:       rp.Color,
			Pattern:     pattern,
			Teams:       teams,
			ReleaseDate: rp.ReleaseDate,
			Description: rp.Description,
		})
	}
	for i, rtp := range *w.TimePoints {
		if rtp.Name == "" || rtp.Date == "" || rtp.Type == "" {
			warn("time point %d (%q): requires name, date, and type", i, rtp.Name)
			continue
		}
		typ, err := plan.ParseTimePointType(rtp.Type)
		if err != nil {
			warn("time point %d (%q): %v", i, rtp.Name, err)
			continue
		}
		if _, err := plan.ParseDay(rtp.Date); err != nil {
			warn("time point %d (%q): %v", i, rtp.Name, err)
			continue
		}
		e.TimePoints = append(e.TimePoints, plan.TimePoint{
			ID:          orNewID(rtp.ID),
			Name:        rtp.Name,
			Date:        rtp.Date,
			Type:        typ,
			Description: rtp.Description,
		})
	}

	if len(e.Teams) == 0 && len(e.Projects) == 0 && len(e.TimePoints) == 0 {
		return Entities{}, warnings, fmt.Errorf("workspace: %w", ErrEmptyImport)
	}
	return e, warnings, nil
}

// EncodeEntities renders a configuration document.
func EncodeEntities(e Entities, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("workspace: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		data, err := toml.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("workspace: encode toml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("workspace: %w: %q", ErrUnknownFormat, f)
}

// Entities returns a copy of the registry collections.
func (w *Workspace) Entities() Entities {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Entities{Teams: w.reg.Teams(), Projects: w.reg.Projects(), TimePoints: w.reg.TimePoints()}
}

// ImportEntities replaces the registry collections. Allocations are kept,
// including entries that no longer match a registered entity.
func (w *Workspace) ImportEntities(e Entities) {
	w.mu.Lock()
	w.reg.Replace(e.Teams, e.Projects, e.TimePoints)
	w.mu.Unlock()

	w.record(telemetry.KindConfigImported, "", map[string]int{
		"teams":      len(e.Teams),
		"projects":   len(e.Projects),
		"timePoints": len(e.TimePoints),
	})
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func orNewID(id string) string {
	if id == "" {
		return plan.NewID()
	}
	return id
}
