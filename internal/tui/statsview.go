package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderStats() string {
	if m.stats == nil {
		return styleDimmed.Render("stats unavailable")
	}

	var b strings.Builder
	b.WriteString(styleHeader.Render("Usage by model"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%-28s %10s %10s %12s\n", "MODEL", "TOKENS", "COST", ""))

	names := make([]string, 0, len(m.stats.ByModel))
	for name := range m.stats.ByModel {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		u := m.stats.ByModel[name]
		b.WriteString(fmt.Sprintf("%-28s %10d %9.2f$\n", truncate(name, 28), u.Tokens.Total(), u.Cost))
	}

	b.WriteString("\n")
	b.WriteString(styleHeader.Render("Total"))
	b.WriteString(fmt.Sprintf("  %d tokens, $%.2f\n\n", m.stats.TotalTokens.Total(), m.stats.TotalCost))

	if !m.hasQuota {
		b.WriteString(styleDimmed.Render("no monthly budget configured"))
		return b.String()
	}

	color := alertColor(m.quota.AlertLevel.String())
	line := fmt.Sprintf("Month to date: $%.2f (%.1f%% of budget, %s), projected $%.2f by day %d/%d",
		m.quota.MonthToDateCost, m.quota.UsagePercent, m.quota.AlertLevel.String(),
		m.quota.MonthlyProjectionCost, m.quota.DaysElapsed, m.quota.DaysInMonth)
	b.WriteString(styleHeader.Foreground(color).Render(line))
	b.WriteString("\n")
	b.WriteString(renderContextBar(m.quota.UsagePercent, color))

	return b.String()
}

// renderContextBar draws a fixed-width percent-filled bar, clamped to
// [0,100].
func renderContextBar(pct float64, color lipgloss.Color) string {
	const width = 40
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * width)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		styleDimmed.Render(strings.Repeat("░", width-filled))
	return styleDimmed.Render("[") + bar + styleDimmed.Render("]")
}
