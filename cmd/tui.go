package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/manpower/internal/tui"
)

// tuiCmd launches the interactive allocation editor.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Edit the plan in an interactive terminal UI",
	Long: `Opens the plan file in a terminal editor with tabs for the allocation
grid, team utilization, the flow graph, and person-days. Edits are
reconciled as you make them; press w to save. External edits to the plan
file are reloaded automatically.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Float64("step", 0, "+/- increment (default step config, 0.5)")
	_ = viper.BindPFlag("step", tuiCmd.Flags().Lookup("step"))
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	if !isStderrTTY() {
		return fmt.Errorf("manpower tui requires a TTY (terminal)")
	}
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	return tui.Run(s.ws, tui.Options{
		Path:    s.cfg.DataFile,
		Step:    s.cfg.Step,
		EndDate: s.cfg.EndDate,
	})
}
