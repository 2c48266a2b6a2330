package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/manpower/internal/config"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the sample plan to the plan file",
	Long: `Writes a sample plan (six teams, eight projects, four quarterly time
points) to the configured plan file. Refuses to overwrite an existing file
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace the plan file with the sample plan",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return writeDemo(true)
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing plan file")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	return writeDemo(force)
}

func writeDemo(force bool) error {
	printer := ui.New()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(cfg.DataFile); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.DataFile)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", cfg.DataFile, err)
		}
	}
	if err := workspace.WriteDocument(cfg.DataFile, workspace.Demo()); err != nil {
		printer.Error(err.Error())
		return err
	}
	printer.Success("wrote sample plan to " + cfg.DataFile)
	return nil
}
