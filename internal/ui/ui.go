// Package ui writes human-facing manpower output to stderr.
package ui

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/reconcile"
	"github.com/papapumpkin/manpower/internal/store"
	"github.com/papapumpkin/manpower/internal/telemetry"
)

// Printer renders plan output. The zero value is not usable; call New.
type Printer struct {
	w io.Writer
}

// New returns a Printer writing to stderr.
func New() *Printer {
	return &Printer{w: os.Stderr}
}

// NewTo returns a Printer writing to w.
func NewTo(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// Num formats a headcount rounded to two decimals without trailing zeros.
func Num(v float64) string {
	return humanize.Ftoa(math.Round(v*100) / 100)
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	p.printf("%s %s\n", styleError.Render("error:"), msg)
}

// Warn prints a warning line.
func (p *Printer) Warn(msg string) {
	p.printf("%s %s\n", styleWarn.Render("⚠"), msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	p.printf("%s\n", styleDim.Render(msg))
}

// Success prints a success line.
func (p *Printer) Success(msg string) {
	p.printf("%s %s\n", styleSuccess.Render("✓"), msg)
}

// Cell prints one allocation cell.
func (p *Printer) Cell(k alloc.Key, c alloc.Cell) {
	p.printf("%s  occupied %s  prerelease %s\n", styleLabel.Render(k.String()), Num(c.Occupied), Num(c.Prerelease))
}

// Writes lists the cells an edit touched.
func (p *Printer) Writes(res reconcile.Result) {
	for _, w := range res.Writes {
		p.printf("  %-8s %s  %s/%s → %s/%s\n",
			string(w.Reason), w.Key,
			Num(w.Before.Occupied), Num(w.Before.Prerelease),
			Num(w.After.Occupied), Num(w.After.Prerelease))
	}
	p.Success(fmt.Sprintf("%d cell(s) written", len(res.Writes)))
}

// Teams lists teams in registry order.
func (p *Printer) Teams(teams []plan.Team) {
	p.printf("%s\n", styleHeader.Render(fmt.Sprintf("teams (%d)", len(teams))))
	for _, t := range teams {
		p.printf("  %s %s %s capacity %s %s\n", Swatch(t.Color), pad(t.ID, 12), pad(t.Badge+" "+t.Name, 16), Num(t.Capacity), styleDim.Render(t.Description))
	}
}

// Projects lists projects in registry order.
func (p *Printer) Projects(projects []plan.Project) {
	p.printf("%s\n", styleHeader.Render(fmt.Sprintf("projects (%d)", len(projects))))
	for _, pr := range projects {
		teams := "all teams"
		if len(pr.Teams) > 0 {
			teams = strings.Join(pr.Teams, ",")
		}
		release := ""
		if pr.ReleaseDate != "" {
			release = " release " + pr.ReleaseDate
		}
		p.printf("  %s %s %s %-12s %s%s\n", Swatch(pr.Color), pad(pr.ID, 12), pad(pr.Name, 16), pr.Status, styleDim.Render(teams), release)
	}
}

// TimePoints lists time points in date order.
func (p *Printer) TimePoints(tps []plan.TimePoint) {
	p.printf("%s\n", styleHeader.Render(fmt.Sprintf("time points (%d)", len(tps))))
	for _, tp := range plan.SortTimePoints(tps) {
		p.printf("  %s %s %s %-9s %s\n", pad(tp.ID, 12), tp.Date, pad(tp.Name, 14), tp.Type, styleDim.Render(tp.Description))
	}
}

// ImportSummary reports what an import kept and dropped.
func (p *Printer) ImportSummary(teams, projects, timePoints int, warnings []string) {
	for _, w := range warnings {
		p.Warn("dropped " + w)
	}
	p.Success(fmt.Sprintf("imported %d team(s), %d project(s), %d time point(s)", teams, projects, timePoints))
}

// History lists saved snapshots, newest first.
func (p *Printer) History(records []store.SaveRecord) {
	if len(records) == 0 {
		p.Info("no snapshots saved")
		return
	}
	for _, r := range records {
		label := r.Label
		if label == "" {
			label = styleDim.Render("(unlabelled)")
		}
		p.printf("  #%-4d %s  %s  %d teams, %d projects, %d time points, %s cells\n",
			r.ID, pad(humanize.Time(r.SavedAt), 16), pad(label, 20),
			r.Teams, r.Projects, r.TimePoints, humanize.Comma(int64(r.Cells)))
	}
}

// Event prints one telemetry event on a single line.
func (p *Printer) Event(e telemetry.Event) {
	subject := e.Subject
	if subject == "" {
		subject = "-"
	}
	p.printf("%s %s %s\n", styleDim.Render(e.Timestamp.Local().Format(time.TimeOnly)), pad(e.Kind, 16), subject)
}
