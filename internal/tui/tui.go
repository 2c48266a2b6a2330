// Package tui is the interactive allocation editor: a bubbletea program with
// tabs for the grid, utilization, the flow graph, and person-days.
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/manpower/internal/workspace"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// Options configure the editor.
type Options struct {
	Path    string  // plan file to save to and watch; empty runs in memory
	Step    float64 // +/- increment; defaults to 1
	EndDate string  // person-days end date; empty uses the plan default
}

// NewProgram creates a BubbleTea program over ws using the alternate
// screen buffer.
func NewProgram(ws *workspace.Workspace, opts Options, changes <-chan workspace.Change, progOpts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{tea.WithAltScreen()}
	allOpts = append(allOpts, progOpts...)
	return tea.NewProgram(NewAppModel(ws, opts, changes), allOpts...)
}

// Run opens the editor and blocks until it exits. When opts.Path is set the
// plan file is watched and external edits are reloaded.
func Run(ws *workspace.Workspace, opts Options) error {
	var changes <-chan workspace.Change
	if opts.Path != "" {
		w, err := workspace.NewWatcher(opts.Path)
		if err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		defer w.Stop()
		changes = w.Changes
	}

	if _, err := NewProgram(ws, opts, changes).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
