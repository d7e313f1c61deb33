package tui

import (
	"fmt"
	"strings"
)

func (m Model) renderTabBar() string {
	var parts []string
	for t := tab(0); t < tabCount; t++ {
		style := styleTabInactive
		if t == m.active {
			style = styleTabActive
		}
		parts = append(parts, style.Render(t.String()))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderStatusBar() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	var warnings []string
	if m.degraded.StatsUnavailable {
		warnings = append(warnings, "stats unavailable")
	}
	if m.degraded.SettingsUnavailable {
		warnings = append(warnings, "settings unavailable")
	}
	if m.degraded.McpUnavailable {
		warnings = append(warnings, "mcp unavailable")
	}
	if m.degraded.PartialSessionLoad {
		warnings = append(warnings, "partial session load")
	}

	status := fmt.Sprintf("%d sessions", len(m.sessions))
	if len(warnings) > 0 {
		status += "  ! " + strings.Join(warnings, ", ")
	}
	if m.lastEvent != "" {
		status += "  last event: " + m.lastEvent
	}
	status += "  [tab] switch  [r] refresh  [q] quit"

	return styleStatusBar.Width(width).Render(status)
}
