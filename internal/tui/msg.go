package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/papapumpkin/manpower/internal/workspace"
)

// MsgPlanChanged is sent when the watcher sees the plan file change on disk.
type MsgPlanChanged struct {
	Change workspace.Change
}

// MsgSaved is sent after a save completes.
type MsgSaved struct {
	Path string
	Err  error
}

// waitForChange blocks on the watcher channel and delivers the next change.
// A closed channel ends the subscription.
func waitForChange(ch <-chan workspace.Change) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return MsgPlanChanged{Change: c}
	}
}

// saveCmd writes the document to path.
func saveCmd(path string, doc workspace.Document) tea.Cmd {
	return func() tea.Msg {
		return MsgSaved{Path: path, Err: workspace.WriteDocument(path, doc)}
	}
}
