package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/papapumpkin/manpower/internal/stats"
)

// Semantic color palette.
var (
	colorPrimary = lipgloss.Color("#00BFFF") // Cyan: headers
	colorSuccess = lipgloss.Color("#00E676") // Green: normal load, success
	colorWarning = lipgloss.Color("#FFD700") // Gold: near capacity
	colorOver    = lipgloss.Color("#FF9100") // Orange: over capacity
	colorDanger  = lipgloss.Color("#FF5252") // Red: critical, errors
	colorMuted   = lipgloss.Color("#8C8C8C") // Gray: secondary text
)

var (
	styleHeader  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleLabel   = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(colorMuted)
	styleSuccess = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	styleWarn    = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	styleError   = lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
)

// BandStyle returns the style used to render a utilization band.
func BandStyle(b stats.Band) lipgloss.Style {
	switch b {
	case stats.BandWarning:
		return lipgloss.NewStyle().Foreground(colorWarning)
	case stats.BandOver:
		return lipgloss.NewStyle().Foreground(colorOver)
	case stats.BandCritical:
		return lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	}
	return lipgloss.NewStyle().Foreground(colorSuccess)
}

// Swatch renders a small block in the entity's hex color.
func Swatch(hex string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■")
}

// pad right-pads s with spaces to n terminal cells.
func pad(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}
