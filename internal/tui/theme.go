// Package tui is a thin bubbletea shell over the DataStore's read API: it
// renders snapshots and refreshes on EventBus activity, but owns no state
// of its own beyond what's needed to navigate what it's showing.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorBright  = lipgloss.Color("#f9fafb")
	colorDimmed  = lipgloss.Color("#6b7280")
	colorBorder  = lipgloss.Color("#4b5563")
	colorAccent  = lipgloss.Color("#3b82f6")
	colorSafe    = lipgloss.Color("#22c55e")
	colorWarning = lipgloss.Color("#d97706")
	colorDanger  = lipgloss.Color("#dc2626")
)

var (
	styleHeader = lipgloss.NewStyle().Bold(true).Foreground(colorBright)

	styleDimmed = lipgloss.NewStyle().Foreground(colorDimmed)

	styleTabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBright).
			Background(colorAccent).
			Padding(0, 1)

	styleTabInactive = lipgloss.NewStyle().
				Foreground(colorDimmed).
				Padding(0, 1)

	styleSelectedRow = lipgloss.NewStyle().Bold(true).Foreground(colorBright)

	styleStatusBar = lipgloss.NewStyle().
			Foreground(colorDimmed).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorBorder)
)

// alertColor maps a models.AlertLevel.String() value to a display color.
func alertColor(level string) lipgloss.Color {
	switch level {
	case "safe":
		return colorSafe
	case "warning":
		return colorWarning
	default:
		return colorDanger
	}
}
