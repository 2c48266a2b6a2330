package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/manpower/internal/flow"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show plan statistics and team utilization",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Show how headcount flows between projects over time",
	Long: `Builds the headcount flow graph over the first three time points.
Teams feed projects at the first time point; each later time point inherits
from the same project first and then takes transfers from other projects.`,
	Args: cobra.NoArgs,
	RunE: runFlow,
}

var personDaysCmd = &cobra.Command{
	Use:   "persondays",
	Short: "Accumulate person-days per project",
	Args:  cobra.NoArgs,
	RunE:  runPersonDays,
}

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Show per-project occupied headcount over time",
	Args:  cobra.NoArgs,
	RunE:  runDistribution,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report over-allocated teams and inconsistent cells",
	Long: `Checks the plan for teams allocated over capacity, teams near capacity,
and cells whose prerelease exceeds their occupied headcount. Exits non-zero
when any over-allocation or inconsistency is found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print every derived view of the plan as JSON",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, flowCmd, personDaysCmd, distributionCmd, checkCmd} {
		c.Flags().Bool("json", false, "print JSON to stdout")
	}
	for _, c := range []*cobra.Command{flowCmd, reportCmd} {
		c.Flags().StringSlice("teams", nil, "only these team ids")
		c.Flags().StringSlice("projects", nil, "only these project ids")
	}
	for _, c := range []*cobra.Command{personDaysCmd, reportCmd} {
		c.Flags().StringSlice("points", nil, "time point ids to accumulate over (default: all)")
		c.Flags().String("end", "", "end date of the last segment, YYYY-MM or YYYY-MM-DD (default: end_date config or Dec 31)")
	}
	rootCmd.AddCommand(statsCmd, flowCmd, personDaysCmd, distributionCmd, checkCmd, reportCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	r, err := s.ws.Report(workspace.ReportOptions{SkipFlow: true, SkipPerDay: true})
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), r.Statistics)
	}
	e := s.ws.Entities()
	p := ui.NewTo(cmd.OutOrStdout())
	p.Statistics(r.Statistics)
	fmt.Fprintln(cmd.OutOrStdout())
	p.Utilization(e.Teams, e.TimePoints, s.ws.TeamUtilization)
	return nil
}

func flowFilter(cmd *cobra.Command) flow.Filter {
	teams, _ := cmd.Flags().GetStringSlice("teams")
	projects, _ := cmd.Flags().GetStringSlice("projects")
	return flow.Filter{Teams: teams, Projects: projects}
}

func runFlow(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	g := s.ws.Flow(flowFilter(cmd))
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), g)
	}
	ui.NewTo(cmd.OutOrStdout()).Flow(g)
	return nil
}

// endDate resolves the person-days end date: flag, then config, then the
// plan default.
func endDate(cmd *cobra.Command, s *session) string {
	if end, _ := cmd.Flags().GetString("end"); end != "" {
		return end
	}
	if s.cfg.EndDate != "" {
		return s.cfg.EndDate
	}
	return s.ws.DefaultEndDate()
}

func runPersonDays(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	points, _ := cmd.Flags().GetStringSlice("points")
	series, err := s.ws.PersonDays(points, endDate(cmd, s))
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), series)
	}
	ui.NewTo(cmd.OutOrStdout()).PersonDays(series)
	return nil
}

func runDistribution(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	r, err := s.ws.Report(workspace.ReportOptions{SkipFlow: true, SkipPerDay: true})
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), r.Distribution)
	}
	ui.NewTo(cmd.OutOrStdout()).Distribution(r.Distribution)
	return nil
}

func runCheck(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	r, err := s.ws.Report(workspace.ReportOptions{SkipFlow: true, SkipPerDay: true})
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(cmd.OutOrStdout(), r.Issues); err != nil {
			return err
		}
	} else {
		ui.NewTo(cmd.OutOrStdout()).Issues(r.Issues)
	}

	failures := 0
	for _, is := range r.Issues {
		if is.Kind != stats.IssueCapacity {
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("check: %d problem(s) found", failures)
	}
	return nil
}

func runReport(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	points, _ := cmd.Flags().GetStringSlice("points")
	r, err := s.ws.Report(workspace.ReportOptions{
		Filter:   flowFilter(cmd),
		Selected: points,
		EndDate:  endDate(cmd, s),
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), r)
}
