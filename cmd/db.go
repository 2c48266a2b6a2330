package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/manpower/internal/store"
	"github.com/papapumpkin/manpower/internal/telemetry"
	"github.com/papapumpkin/manpower/internal/ui"
	"github.com/papapumpkin/manpower/internal/workspace"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Save and restore plan snapshots in the SQLite database",
}

var dbSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save the current plan as the latest snapshot",
	Args:  cobra.NoArgs,
	RunE:  runDBSave,
}

var dbLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the plan file with the latest snapshot",
	Args:  cobra.NoArgs,
	RunE:  runDBLoad,
}

var dbHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved snapshots, newest first",
	Args:  cobra.NoArgs,
	RunE:  runDBHistory,
}

func init() {
	dbCmd.PersistentFlags().String("db", "", "SQLite database path (default .manpower/plan.db)")
	dbSaveCmd.Flags().StringP("label", "m", "", "label for this save")
	dbHistoryCmd.Flags().Bool("json", false, "print JSON to stdout")
	_ = viper.BindPFlag("db_path", dbCmd.PersistentFlags().Lookup("db"))
	dbCmd.AddCommand(dbSaveCmd, dbLoadCmd, dbHistoryCmd)
	rootCmd.AddCommand(dbCmd)
}

// withStore opens the plan and the snapshot database.
func withStore(ctx context.Context, fn func(s *session, st *store.SQLiteStore) error) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.close()

	st, err := store.Open(ctx, s.cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(s, st)
}

func runDBSave(cmd *cobra.Command, _ []string) error {
	label, _ := cmd.Flags().GetString("label")
	return withStore(cmd.Context(), func(s *session, st *store.SQLiteStore) error {
		rec, err := st.Save(cmd.Context(), s.ws.Snapshot(), label)
		if err != nil {
			return err
		}
		_ = s.emitter.Record(telemetry.KindSnapshotSaved, s.cfg.DBPath, rec)
		ui.New().Success(fmt.Sprintf("saved snapshot #%d (%d cells)", rec.ID, rec.Cells))
		return nil
	})
}

func runDBLoad(cmd *cobra.Command, _ []string) error {
	printer := ui.New()
	return withStore(cmd.Context(), func(s *session, st *store.SQLiteStore) error {
		snap, err := st.Load(cmd.Context())
		if err != nil {
			return err
		}
		s.ws.Replace(workspace.FromSnapshot(snap, s.ws.Document().Metadata))
		if err := s.save(); err != nil {
			printer.Error(fmt.Sprintf("failed to save plan: %v", err))
			return err
		}
		_ = s.emitter.Record(telemetry.KindSnapshotLoaded, s.cfg.DBPath, map[string]int{"cells": snap.Cells()})
		printer.Success(fmt.Sprintf("restored latest snapshot into %s", s.cfg.DataFile))
		return nil
	})
}

func runDBHistory(cmd *cobra.Command, _ []string) error {
	return withStore(cmd.Context(), func(_ *session, st *store.SQLiteStore) error {
		records, err := st.History(cmd.Context())
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd.OutOrStdout(), records)
		}
		ui.NewTo(cmd.OutOrStdout()).History(records)
		return nil
	})
}
