package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

var teamCmd = &cobra.Command{Use: "team", Short: "Manage teams"}
var projectCmd = &cobra.Command{Use: "project", Short: "Manage projects"}
var timepointCmd = &cobra.Command{Use: "timepoint", Short: "Manage time points"}

func init() {
	teamAdd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a team",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamAdd,
	}
	teamUpdate := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a team's fields; only flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE:  runTeamUpdate,
	}
	for _, c := range []*cobra.Command{teamAdd, teamUpdate} {
		c.Flags().String("id", "", "team id (default: generated)")
		c.Flags().String("name", "", "display name")
		c.Flags().Float64("capacity", 0, "total headcount")
		c.Flags().String("color", "#95a5a6", "hex color")
		c.Flags().String("badge", "", "short badge")
		c.Flags().String("description", "", "description")
	}
	teamCmd.AddCommand(teamAdd, teamUpdate, removeCmd(workspace.EntityTeam), listCmd(workspace.EntityTeam))

	projectAdd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a project",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectAdd,
	}
	projectUpdate := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project's fields; only flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE:  runProjectUpdate,
	}
	for _, c := range []*cobra.Command{projectAdd, projectUpdate} {
		c.Flags().String("id", "", "project id (default: generated)")
		c.Flags().String("name", "", "display name")
		c.Flags().String("status", string(plan.StatusPlanning), "planning, development, release, or completed")
		c.Flags().String("color", "#95a5a6", "hex color")
		c.Flags().String("pattern", string(plan.PatternSolid), "solid, stripes, or dots")
		c.Flags().StringSlice("teams", nil, "team ids working on the project (default: all)")
		c.Flags().String("release", "", "release month, YYYY-MM")
		c.Flags().String("description", "", "description")
	}
	projectCmd.AddCommand(projectAdd, projectUpdate, removeCmd(workspace.EntityProject), listCmd(workspace.EntityProject))

	tpAdd := &cobra.Command{
		Use:   "add <name> <YYYY-MM>",
		Short: "Add a time point",
		Args:  cobra.ExactArgs(2),
		RunE:  runTimePointAdd,
	}
	tpUpdate := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a time point's fields; only flags given are changed",
		Args:  cobra.ExactArgs(1),
		RunE:  runTimePointUpdate,
	}
	for _, c := range []*cobra.Command{tpAdd, tpUpdate} {
		c.Flags().String("id", "", "time point id (default: generated)")
		c.Flags().String("name", "", "display name")
		c.Flags().String("date", "", "month, YYYY-MM")
		c.Flags().String("type", string(plan.TypePlanning), "current, planning, or release")
		c.Flags().String("description", "", "description")
	}
	timepointCmd.AddCommand(tpAdd, tpUpdate, removeCmd(workspace.EntityTimePoint), listCmd(workspace.EntityTimePoint))

	rootCmd.AddCommand(teamCmd, projectCmd, timepointCmd)
}

func removeCmd(kind workspace.EntityKind) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: fmt.Sprintf("Remove a %s; its allocations stay in the matrix", kind),
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return mutate(func(s *session) (string, error) {
				if err := s.ws.Remove(kind, args[0]); err != nil {
					return "", err
				}
				return fmt.Sprintf("removed %s %s", kind, args[0]), nil
			})
		},
	}
}

func listCmd(kind workspace.EntityKind) *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", kind),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession()
			if err != nil {
				return err
			}
			defer s.close()

			e := s.ws.Entities()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				switch kind {
				case workspace.EntityTeam:
					return printJSON(cmd.OutOrStdout(), e.Teams)
				case workspace.EntityProject:
					return printJSON(cmd.OutOrStdout(), e.Projects)
				}
				return printJSON(cmd.OutOrStdout(), e.TimePoints)
			}
			p := ui.NewTo(cmd.OutOrStdout())
			switch kind {
			case workspace.EntityTeam:
				p.Teams(e.Teams)
			case workspace.EntityProject:
				p.Projects(e.Projects)
			default:
				p.TimePoints(e.TimePoints)
			}
			return nil
		},
	}
	c.Flags().Bool("json", false, "print JSON to stdout")
	return c
}

// mutate opens the plan, applies fn, saves, and reports fn's message.
func mutate(fn func(s *session) (string, error)) error {
	printer := ui.New()
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	msg, err := fn(s)
	if err != nil {
		return err
	}
	if err := s.save(); err != nil {
		printer.Error(fmt.Sprintf("failed to save plan: %v", err))
		return err
	}
	printer.Success(msg)
	return nil
}

func runTeamAdd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	t := plan.Team{Name: args[0]}
	t.ID, _ = f.GetString("id")
	t.Capacity, _ = f.GetFloat64("capacity")
	t.Color, _ = f.GetString("color")
	t.Badge, _ = f.GetString("badge")
	t.Description, _ = f.GetString("description")
	if name, _ := f.GetString("name"); name != "" {
		t.Name = name
	}
	return mutate(func(s *session) (string, error) {
		t = s.ws.AddTeam(t)
		return fmt.Sprintf("added team %s (%s)", t.ID, t.Name), nil
	})
}

func runTeamUpdate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var patch plan.TeamPatch
	patch.Name = stringFlag(f, "name")
	patch.Color = stringFlag(f, "color")
	patch.Badge = stringFlag(f, "badge")
	patch.Description = stringFlag(f, "description")
	if f.Changed("capacity") {
		v, _ := f.GetFloat64("capacity")
		patch.Capacity = &v
	}
	return mutate(func(s *session) (string, error) {
		t, err := s.ws.UpdateTeam(args[0], patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("updated team %s (%s)", t.ID, t.Name), nil
	})
}

func runProjectAdd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	p := plan.Project{Name: args[0]}
	p.ID, _ = f.GetString("id")
	p.Color, _ = f.GetString("color")
	p.Teams, _ = f.GetStringSlice("teams")
	p.ReleaseDate, _ = f.GetString("release")
	p.Description, _ = f.GetString("description")
	if name, _ := f.GetString("name"); name != "" {
		p.Name = name
	}
	status, _ := f.GetString("status")
	pattern, _ := f.GetString("pattern")
	var err error
	if p.Status, err = plan.ParseStatus(status); err != nil {
		return err
	}
	if p.Pattern, err = plan.ParsePattern(pattern); err != nil {
		return err
	}
	return mutate(func(s *session) (string, error) {
		if err := checkTeams(s, p.Teams); err != nil {
			return "", err
		}
		p = s.ws.AddProject(p)
		return fmt.Sprintf("added project %s (%s)", p.ID, p.Name), nil
	})
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var patch plan.ProjectPatch
	patch.Name = stringFlag(f, "name")
	patch.Color = stringFlag(f, "color")
	patch.ReleaseDate = stringFlag(f, "release")
	patch.Description = stringFlag(f, "description")
	if f.Changed("status") {
		v, _ := f.GetString("status")
		st, err := plan.ParseStatus(v)
		if err != nil {
			return err
		}
		patch.Status = &st
	}
	if f.Changed("pattern") {
		v, _ := f.GetString("pattern")
		pt, err := plan.ParsePattern(v)
		if err != nil {
			return err
		}
		patch.Pattern = &pt
	}
	if f.Changed("teams") {
		v, _ := f.GetStringSlice("teams")
		patch.Teams = &v
	}
	return mutate(func(s *session) (string, error) {
		if patch.Teams != nil {
			if err := checkTeams(s, *patch.Teams); err != nil {
				return "", err
			}
		}
		p, err := s.ws.UpdateProject(args[0], patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("updated project %s (%s)", p.ID, p.Name), nil
	})
}

func runTimePointAdd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	tp := plan.TimePoint{Name: args[0], Date: args[1]}
	tp.ID, _ = f.GetString("id")
	tp.Description, _ = f.GetString("description")
	typ, _ := f.GetString("type")
	var err error
	if tp.Type, err = plan.ParseTimePointType(typ); err != nil {
		return err
	}
	if _, err := plan.ParseMonth(tp.Date); err != nil {
		return err
	}
	return mutate(func(s *session) (string, error) {
		tp = s.ws.AddTimePoint(tp)
		return fmt.Sprintf("added time point %s (%s, %s)", tp.ID, tp.Name, tp.Date), nil
	})
}

func runTimePointUpdate(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	var patch plan.TimePointPatch
	patch.Name = stringFlag(f, "name")
	patch.Description = stringFlag(f, "description")
	if patch.Date = stringFlag(f, "date"); patch.Date != nil {
		if _, err := plan.ParseMonth(*patch.Date); err != nil {
			return err
		}
	}
	if f.Changed("type") {
		v, _ := f.GetString("type")
		typ, err := plan.ParseTimePointType(v)
		if err != nil {
			return err
		}
		patch.Type = &typ
	}
	return mutate(func(s *session) (string, error) {
		tp, err := s.ws.UpdateTimePoint(args[0], patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("updated time point %s (%s, %s)", tp.ID, tp.Name, tp.Date), nil
	})
}

// stringFlag returns a pointer to the flag's value when it was set.
func stringFlag(f *pflag.FlagSet, name string) *string {
	if !f.Changed(name) {
		return nil
	}
	v, _ := f.GetString(name)
	return &v
}

func checkTeams(s *session, ids []string) error {
	var err error
	s.ws.Read(func(reg *plan.Registry, _ *alloc.Matrix) {
		for _, id := range ids {
			if _, ok := reg.Team(id); !ok {
				err = fmt.Errorf("unknown team %q", id)
				return
			}
		}
	})
	return err
}
