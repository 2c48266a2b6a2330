package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorMuted      = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorWhite      = lipgloss.Color("#EEEEEE") // Off-white: primary text
	colorSurface    = lipgloss.Color("#1E1E2E") // Dark surface: status bar bg
	colorSurfaceDim = lipgloss.Color("#181825") // Darkest surface: footer bg
	colorDanger     = lipgloss.Color("#FF5252") // Red: errors
	colorAccent     = lipgloss.Color("#FFD700") // Gold: unsaved changes
)

// Status bar styles.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleStatusLabel = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleStatusDirty = lipgloss.NewStyle().
				Foreground(colorAccent)

	styleStatusError = lipgloss.NewStyle().
				Foreground(colorDanger).
				Bold(true)
)

// Footer styles.
var (
	styleFooter = lipgloss.NewStyle().
			Background(colorSurfaceDim).
			Foreground(colorMutedLight).
			Padding(0, 1)

	styleFooterKey  = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	styleFooterDesc = lipgloss.NewStyle().Foreground(colorMutedLight)
	styleFooterSep  = lipgloss.NewStyle().Foreground(colorMuted)
)

// Grid styles.
var (
	styleGridHeader = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleGridCursor = lipgloss.NewStyle().Reverse(true).Bold(true)
	styleGridEmpty  = lipgloss.NewStyle().Foreground(colorMuted)
	styleGridGroup  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// Tab bar styles.
var (
	styleTabActive   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	styleTabInactive = lipgloss.NewStyle().Foreground(colorMuted)
)

// CompactWidth triggers compact footer hints.
const CompactWidth = 60
