package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/ui"
)

var cellCmd = &cobra.Command{
	Use:   "cell",
	Short: "Read and edit allocation cells",
}

var cellGetCmd = &cobra.Command{
	Use:   "get <time-point> <project> <team>",
	Short: "Print one allocation cell",
	Args:  cobra.ExactArgs(3),
	RunE:  runCellGet,
}

var cellSetCmd = &cobra.Command{
	Use:   "set <time-point> <project> <team> <occupied|prerelease> <value>",
	Short: "Edit one allocation cell and reconcile its neighbours",
	Long: `Sets the occupied or prerelease headcount of one cell. The edit is
reconciled: a prerelease change moves headcount out of the next time point,
and an occupied change adjusts the previous time point's prerelease.
Non-numeric values are treated as 0 and negatives are clamped.`,
	Args: cobra.ExactArgs(5),
	RunE: runCellSet,
}

func init() {
	cellGetCmd.Flags().Bool("json", false, "print JSON to stdout")
	cellSetCmd.Flags().Bool("json", false, "print the writes as JSON to stdout")
	cellCmd.AddCommand(cellGetCmd, cellSetCmd)
	rootCmd.AddCommand(cellCmd)
}

func runCellGet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	k := alloc.Key{TimePoint: args[0], Project: args[1], Team: args[2]}
	if err := s.checkIDs(k.TimePoint, k.Project, k.Team); err != nil {
		return err
	}
	c := s.ws.Get(k)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), c)
	}
	ui.NewTo(cmd.OutOrStdout()).Cell(k, c)
	return nil
}

func runCellSet(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	k := alloc.Key{TimePoint: args[0], Project: args[1], Team: args[2]}
	if err := s.checkIDs(k.TimePoint, k.Project, k.Team); err != nil {
		return err
	}
	field, err := alloc.ParseField(args[3])
	if err != nil {
		return err
	}

	res := s.ws.SetCell(k, field, alloc.ParseValue(args[4]))
	if err := s.save(); err != nil {
		printer.Error(fmt.Sprintf("failed to save plan: %v", err))
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd.OutOrStdout(), res)
	}
	if s.cfg.Verbose {
		printer.Writes(res)
		return nil
	}
	printer.Cell(k, s.ws.Get(k))
	if n := res.Neighbours(k); n > 0 {
		printer.Info(fmt.Sprintf("%d neighbouring cell(s) reconciled", n))
	}
	return nil
}
