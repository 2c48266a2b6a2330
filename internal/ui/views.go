package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/persondays"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/stats"
)

// UtilizationFunc reports a team's utilization at a time point.
type UtilizationFunc func(teamID, timePointID string) stats.Utilization

// Statistics prints the plan-wide figures.
func (p *Printer) Statistics(g stats.Global) {
	p.printf("%s\n", styleHeader.Render("plan statistics"))
	p.printf("  total capacity     %s\n", Num(g.TotalCapacity))
	p.printf("  avg allocated      %s\n", Num(g.TotalAllocated))
	p.printf("  avg prerelease     %s\n", Num(g.TotalPrerelease))
	if g.TotalCapacity > 0 {
		pct := g.TotalAllocated / g.TotalCapacity * 100
		p.printf("  avg utilization    %s\n", BandStyle(stats.Classify(pct)).Render(fmt.Sprintf("%.1f%%", pct)))
	}
	p.printf("  time points        %d\n", g.TimePointsCounted)
}

// Utilization prints a team × time point grid of load percentages.
func (p *Printer) Utilization(teams []plan.Team, tps []plan.TimePoint, util UtilizationFunc) {
	sorted := plan.SortTimePoints(tps)
	var b strings.Builder
	b.WriteString(pad("", 18))
	for _, tp := range sorted {
		b.WriteString(pad(tp.Name, 16))
	}
	p.printf("%s\n", styleHeader.Render(b.String()))

	for _, t := range teams {
		b.Reset()
		b.WriteString(Swatch(t.Color) + " " + pad(t.Name, 16))
		for _, tp := range sorted {
			u := util(t.ID, tp.ID)
			cell := fmt.Sprintf("%s/%s %3.0f%%", Num(u.Used), Num(u.Capacity), u.Percentage)
			b.WriteString(BandStyle(u.Band()).Render(pad(cell, 16)))
		}
		p.printf("%s\n", b.String())
	}
}

// Distribution prints per-project occupied headcount over time.
func (p *Printer) Distribution(d stats.Distribution) {
	var b strings.Builder
	b.WriteString(pad("", 18))
	for _, tp := range d.TimePoints {
		b.WriteString(pad(tp.Name, 12))
	}
	p.printf("%s\n", styleHeader.Render(b.String()))
	for _, s := range d.Series {
		b.Reset()
		b.WriteString(Swatch(s.Color) + " " + pad(s.Name, 16))
		for _, v := range s.Values {
			b.WriteString(pad(Num(v), 12))
		}
		p.printf("%s\n", b.String())
	}
}

// Issues prints consistency findings, or a success line when there are none.
func (p *Printer) Issues(issues []stats.Issue) {
	if len(issues) == 0 {
		p.Success("no issues found")
		return
	}
	for _, is := range issues {
		switch is.Kind {
		case stats.IssueCapacity:
			p.Warn(is.Message)
		default:
			p.printf("%s %s\n", styleError.Render("✗"), is.Message)
		}
	}
	p.printf("%s\n", styleDim.Render(fmt.Sprintf("%d issue(s)", len(issues))))
}

// Flow prints the flow graph as a list of links grouped by source column.
func (p *Printer) Flow(g flow.Graph) {
	if len(g.Links) == 0 {
		p.Info("no flow: fewer than one time point or no allocations")
		return
	}
	label := func(id string) string {
		if n, ok := g.Node(id); ok {
			if n.Kind == flow.NodeProject {
				return fmt.Sprintf("%s@%d", n.Label, n.Column)
			}
			return n.Label
		}
		return id
	}
	p.printf("%s\n", styleHeader.Render(fmt.Sprintf("flow over %d time point(s)", len(g.TimePoints))))
	for _, l := range g.Links {
		var shares []string
		for _, s := range l.Teams {
			shares = append(shares, s.Name+" "+Num(s.Value))
		}
		p.printf("  %s → %s  %s  %s\n", pad(label(l.Source), 20), pad(label(l.Target), 20),
			styleLabel.Render(Num(l.Value)), styleDim.Render(strings.Join(shares, ", ")))
	}
}

// PersonDays prints per-project person-day totals with their segments.
func (p *Printer) PersonDays(series []persondays.Series) {
	for _, s := range series {
		p.printf("%s %s %s\n", Swatch(s.Color), pad(s.Name, 16), styleLabel.Render(humanize.Commaf(s.Total)+" person-days"))
		for _, seg := range s.Segments {
			p.printf("    %s %s × %dd = %s\n", pad(seg.Name, 24), Num(seg.Manpower), seg.Days, Num(seg.ManDays))
		}
	}
}
