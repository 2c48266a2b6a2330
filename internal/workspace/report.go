package workspace

import (
	"fmt"

	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/persondays"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/sourcegraph/conc"
)

// ReportOptions selects what goes into a Report.
type ReportOptions struct {
	Filter     flow.Filter
	Selected   []string // person-day time points; empty selects all
	EndDate    string   // person-day end date; empty uses DefaultEndDate
	SkipFlow   bool
	SkipPerDay bool
}

// Report is every derived view of the plan computed from one consistent
// read of the registry and matrix.
type Report struct {
	Statistics   stats.Global        `json:"statistics"`
	Distribution stats.Distribution  `json:"distribution"`
	Issues       []stats.Issue       `json:"issues"`
	Flow         *flow.Graph         `json:"flow,omitempty"`
	PersonDays   []persondays.Series `json:"personDays,omitempty"`
}

// Report computes the derived views concurrently under a single read lock.
func (w *Workspace) Report(opts ReportOptions) (Report, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	endDate := opts.EndDate
	if endDate == "" {
		endDate = persondays.DefaultEndDate(w.reg.TimePoints())
	}

	var (
		r      Report
		pdErr  error
		wg     conc.WaitGroup
		graph  flow.Graph
		series []persondays.Series
	)
	wg.Go(func() { r.Statistics = stats.GlobalStatistics(w.reg, w.matrix) })
	wg.Go(func() { r.Distribution = stats.Distribute(w.reg, w.matrix) })
	wg.Go(func() { r.Issues = stats.Check(w.reg, w.matrix) })
	if !opts.SkipFlow {
		wg.Go(func() { graph = flow.Build(w.reg, w.matrix, opts.Filter) })
	}
	if !opts.SkipPerDay {
		wg.Go(func() { series, pdErr = persondays.Accumulate(w.reg, w.matrix, opts.Selected, endDate) })
	}
	wg.Wait()

	if pdErr != nil {
		return Report{}, fmt.Errorf("workspace: report: %w", pdErr)
	}
	if !opts.SkipFlow {
		r.Flow = &graph
	}
	r.PersonDays = series
	return r, nil
}
