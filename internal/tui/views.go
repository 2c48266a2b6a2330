package tui

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/persondays"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// utilizationView renders the team load grid followed by plan statistics.
func utilizationView(ws *workspace.Workspace) string {
	var teams []plan.Team
	var tps []plan.TimePoint
	ws.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
		teams = reg.Teams()
		tps = reg.TimePoints()
	})

	var buf bytes.Buffer
	p := ui.NewTo(&buf)
	p.Utilization(teams, tps, ws.TeamUtilization)
	buf.WriteByte('\n')
	p.Statistics(ws.Statistics())
	return strings.TrimRight(buf.String(), "\n")
}

// flowView renders the unfiltered flow graph as a link list.
func flowView(ws *workspace.Workspace) string {
	var buf bytes.Buffer
	ui.NewTo(&buf).Flow(ws.Flow(flow.Filter{}))
	return strings.TrimRight(buf.String(), "\n")
}

// barWidth is the widest person-days bar when the terminal width is unknown.
const barWidth = 40

// personDaysView renders one horizontal bar per project, scaled to the
// largest total.
func personDaysView(ws *workspace.Workspace, endDate string, width int) string {
	if endDate == "" {
		endDate = ws.DefaultEndDate()
	}
	series, err := ws.PersonDays(nil, endDate)
	if err != nil {
		return styleStatusError.Render(err.Error())
	}
	return renderBars(series, width)
}

func renderBars(series []persondays.Series, width int) string {
	if len(series) == 0 {
		return styleGridEmpty.Render("  no projects")
	}
	maxBar := barWidth
	if width > gridLabelWidth+20 {
		maxBar = width - gridLabelWidth - 20
	}
	top := series[0].Total
	for _, s := range series {
		top = max(top, s.Total)
	}

	var b strings.Builder
	for _, s := range series {
		n := 0
		if top > 0 {
			n = int(s.Total / top * float64(maxBar))
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(strings.Repeat("█", n))
		b.WriteString(padCells(ui.Swatch(s.Color)+" "+s.Name, gridLabelWidth))
		b.WriteString(bar + " " + humanize.Commaf(s.Total) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
