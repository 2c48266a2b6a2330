package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// Tab identifies a top-level view.
type Tab int

const (
	// TabGrid shows the editable allocation grid (default).
	TabGrid Tab = iota
	// TabUtilization shows team load per time point.
	TabUtilization
	// TabFlow shows the headcount flow graph.
	TabFlow
	// TabPersonDays shows accumulated person-days per project.
	TabPersonDays
)

// tabCount is the total number of tabs.
const tabCount = 4

// tabLabels maps each tab to its display label.
var tabLabels = [tabCount]string{
	TabGrid:        "allocations",
	TabUtilization: "utilization",
	TabFlow:        "flow",
	TabPersonDays:  "person-days",
}

// Label returns the display label for a tab.
func (t Tab) Label() string {
	if int(t) >= 0 && int(t) < tabCount {
		return tabLabels[t]
	}
	return "unknown"
}

// Next cycles forward to the next tab, wrapping around.
func (t Tab) Next() Tab {
	return Tab((int(t) + 1) % tabCount)
}

// Prev cycles backward to the previous tab, wrapping around.
func (t Tab) Prev() Tab {
	return Tab((int(t) + tabCount - 1) % tabCount)
}

// TabFromNumber converts a 1-based number key to a Tab.
func TabFromNumber(n int) (Tab, bool) {
	idx := n - 1
	if idx >= 0 && idx < tabCount {
		return Tab(idx), true
	}
	return TabGrid, false
}

// TabBar renders a horizontal row of tab labels.
type TabBar struct {
	Active Tab
	Width  int
}

// View renders the tab bar as a single styled line.
func (tb TabBar) View() string {
	parts := make([]string, 0, tabCount)
	for i := 0; i < tabCount; i++ {
		tab := Tab(i)
		label := fmt.Sprintf("[%d] %s", i+1, tab.Label())
		if tab == tb.Active {
			parts = append(parts, styleTabActive.Render(label))
		} else {
			parts = append(parts, styleTabInactive.Render(label))
		}
	}
	return lipgloss.NewStyle().
		Width(tb.Width).
		PaddingLeft(2).
		Render(strings.Join(parts, "  "))
}

// Footer renders context-sensitive keybinding hints.
type Footer struct {
	Width    int
	Bindings []key.Binding
}

// View renders the footer as a single line of keybinding hints. Narrow
// terminals get key hints without descriptions.
func (f Footer) View() string {
	compact := f.Width < CompactWidth

	var parts []string
	for _, b := range f.Bindings {
		if !b.Enabled() {
			continue
		}
		help := b.Help()
		part := styleFooterKey.Render(help.Key)
		if !compact {
			part += styleFooterSep.Render(":") + styleFooterDesc.Render(help.Desc)
		}
		parts = append(parts, part)
	}
	sep := styleFooterSep.Render("  ")
	if compact {
		sep = styleFooterSep.Render(" ")
	}
	return styleFooter.Width(f.Width).Render(strings.Join(parts, sep))
}
