package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a plan or an entity config file (.json or .toml)",
	Long: `Imports a file into the plan.

By default the file is a whole plan document and replaces the current plan.
With --entities the file only holds teams, projects, and time points: they
replace the registry while allocations are kept. Invalid entities are
dropped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the plan or its entities to a .json or .toml file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	importCmd.Flags().Bool("entities", false, "import teams, projects, and time points only")
	exportCmd.Flags().Bool("entities", false, "export teams, projects, and time points only")
	rootCmd.AddCommand(importCmd, exportCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	path := args[0]

	if entitiesOnly, _ := cmd.Flags().GetBool("entities"); !entitiesOnly {
		doc, err := workspace.ReadDocument(path)
		if err != nil {
			return err
		}
		return mutate(func(s *session) (string, error) {
			s.ws.Replace(doc)
			return fmt.Sprintf("imported plan from %s: %d team(s), %d project(s), %d time point(s)",
				path, len(doc.Teams), len(doc.Projects), len(doc.TimePoints)), nil
		})
	}

	f, err := workspace.FormatFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	e, warnings, err := workspace.ParseEntities(data, f)
	if err != nil {
		return err
	}

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()
	s.ws.ImportEntities(e)
	if err := s.save(); err != nil {
		printer.Error(fmt.Sprintf("failed to save plan: %v", err))
		return err
	}
	printer.ImportSummary(len(e.Teams), len(e.Projects), len(e.TimePoints), warnings)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	printer := ui.New()
	path := args[0]

	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	if entitiesOnly, _ := cmd.Flags().GetBool("entities"); entitiesOnly {
		f, err := workspace.FormatFor(path)
		if err != nil {
			return err
		}
		data, err := workspace.EncodeEntities(s.ws.Entities(), f)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	} else if err := workspace.WriteDocument(path, s.ws.Document()); err != nil {
		return err
	}
	printer.Success("exported to " + path)
	return nil
}
