package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/papapumpkin/manpower/internal/stats"
	"github.com/papapumpkin/manpower/internal/ui"
)

// StatusBar renders the top bar: plan title, the cursor's time point load,
// the edit field, and the save state.
type StatusBar struct {
	Title     string
	TimePoint string
	Overall   stats.Utilization
	Field     string
	Dirty     bool
	Message   string
	IsError   bool
	Width     int
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := styleStatusLabel.Render("manpower") + " " + s.Title
	if s.TimePoint != "" {
		load := fmt.Sprintf("%s/%s %.0f%%", ui.Num(s.Overall.Used), ui.Num(s.Overall.Capacity), s.Overall.Percentage)
		left += "  " + s.TimePoint + " " + ui.BandStyle(s.Overall.Band()).Render(load)
	}
	if s.Field != "" {
		left += "  editing " + s.Field
	}

	right := ""
	switch {
	case s.Message != "" && s.IsError:
		right = styleStatusError.Render(s.Message)
	case s.Message != "":
		right = s.Message
	}
	if s.Dirty {
		right += " " + styleStatusDirty.Render("● unsaved")
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styleStatusBar.Width(s.Width).Render(left + padCells("", gap) + right)
}
