package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/ui"
)

// Grid layout widths in terminal cells.
const (
	gridLabelWidth = 26
	gridCellWidth  = 12
)

// GridRow is one editable row: a team's allocation to a project.
type GridRow struct {
	Project plan.Project
	Team    plan.Team
	First   bool // first row of its project group
}

// Grid is the allocation editor: rows are project/team pairs and columns are
// time points in date order.
type Grid struct {
	Rows       []GridRow
	TimePoints []plan.TimePoint
	Row        int
	Col        int
	Field      alloc.Field
	Offset     int // first visible row
	Height     int // visible rows; 0 shows all
}

// NewGrid builds rows and columns from the registry.
func NewGrid(reg *plan.Registry) Grid {
	g := Grid{Field: alloc.Occupied}
	g.Reload(reg)
	return g
}

// Reload rebuilds rows and columns and keeps the cursor in range.
func (g *Grid) Reload(reg *plan.Registry) {
	g.Rows = nil
	for _, p := range reg.Projects() {
		for i, t := range reg.ProjectTeams(p) {
			g.Rows = append(g.Rows, GridRow{Project: p, Team: t, First: i == 0})
		}
	}
	g.TimePoints = reg.SortedTimePoints()
	g.clamp()
}

// Key returns the matrix key under the cursor.
func (g Grid) Key() (alloc.Key, bool) {
	if len(g.Rows) == 0 || len(g.TimePoints) == 0 {
		return alloc.Key{}, false
	}
	r := g.Rows[g.Row]
	return alloc.Key{TimePoint: g.TimePoints[g.Col].ID, Project: r.Project.ID, Team: r.Team.ID}, true
}

// Move shifts the cursor by the given row and column deltas.
func (g *Grid) Move(dRow, dCol int) {
	g.Row += dRow
	g.Col += dCol
	g.clamp()
}

// SetHeight sets the number of visible rows.
func (g *Grid) SetHeight(h int) {
	g.Height = max(h, 1)
	g.clamp()
}

func (g *Grid) clamp() {
	g.Row = min(max(g.Row, 0), max(len(g.Rows)-1, 0))
	g.Col = min(max(g.Col, 0), max(len(g.TimePoints)-1, 0))
	if g.Height <= 0 {
		g.Offset = 0
		return
	}
	if g.Row < g.Offset {
		g.Offset = g.Row
	}
	if g.Row >= g.Offset+g.Height {
		g.Offset = g.Row - g.Height + 1
	}
}

// View renders the visible rows. Cells show "occupied/prerelease" and are
// colored by the team's utilization band at that time point.
func (g Grid) View(cell func(alloc.Key) alloc.Cell, util func(teamID, timePointID string) stats.Utilization) string {
	if len(g.Rows) == 0 || len(g.TimePoints) == 0 {
		return styleGridEmpty.Render("  no projects or time points: add some with `manpower project add` and `manpower timepoint add`")
	}

	var b strings.Builder
	header := padCells("", gridLabelWidth)
	for _, tp := range g.TimePoints {
		header += padCells(tp.Name, gridCellWidth)
	}
	b.WriteString(styleGridHeader.Render(header))
	b.WriteByte('\n')

	end := len(g.Rows)
	if g.Height > 0 {
		end = min(g.Offset+g.Height, len(g.Rows))
	}
	for i := g.Offset; i < end; i++ {
		r := g.Rows[i]
		label := "  " + ui.Swatch(r.Team.Color) + " " + r.Team.Name
		if r.First {
			label = ui.Swatch(r.Project.Color) + " " + styleGridGroup.Render(r.Project.Name) + " " + r.Team.Name
		}
		b.WriteString(padCells(label, gridLabelWidth))

		for j, tp := range g.TimePoints {
			k := alloc.Key{TimePoint: tp.ID, Project: r.Project.ID, Team: r.Team.ID}
			c := cell(k)
			text := fmt.Sprintf("%s/%s", ui.Num(c.Occupied), ui.Num(c.Prerelease))
			style := ui.BandStyle(util(r.Team.ID, tp.ID).Band())
			if c.IsZero() {
				style = styleGridEmpty
			}
			if i == g.Row && j == g.Col {
				style = styleGridCursor
			}
			b.WriteString(style.Render(padCells(text, gridCellWidth-1)) + " ")
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

// padCells right-pads s with spaces to n terminal cells.
func padCells(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
