package tui

import (
	"fmt"
	"strings"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleSessionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.sessionIdx > 0 {
			m.sessionIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.sessionIdx < len(m.sessions)-1 {
			m.sessionIdx++
		}
	case key.Matches(msg, m.keys.Enter):
		if m.sessionIdx < len(m.sessions) {
			id := m.sessions[m.sessionIdx].ID
			content, err := m.store.LoadSessionContent(id)
			if err != nil {
				m.detailView.SetContent(fmt.Sprintf("failed to load session: %v", err))
			} else {
				m.sessionDetail = &content
				m.detailView.SetContent(renderTranscript(content))
			}
			m.detailView.GotoTop()
			m.showDetail = true
		}
	}
	return m, nil
}

func renderTranscript(content models.SessionContent) string {
	var b strings.Builder
	for _, msg := range content.Messages {
		if msg.Role == "" {
			continue
		}
		b.WriteString(styleHeader.Render(string(msg.Role)))
		b.WriteString("\n")
		b.WriteString(msg.Text)
		b.WriteString("\n\n")
	}
	if b.Len() == 0 {
		return "(no renderable messages)"
	}
	return b.String()
}

func (m Model) renderSessions() string {
	if len(m.sessions) == 0 {
		return styleDimmed.Render("no sessions found")
	}

	var b strings.Builder
	header := fmt.Sprintf("%-10s %-24s %-12s %8s %10s %-16s", "ID", "PROJECT", "LAST ACTIVE", "MSGS", "TOKENS", "BRANCH")
	b.WriteString(styleHeader.Render(header))
	b.WriteString("\n")

	for i, s := range m.sessions {
		id := string(s.ID)
		if len(id) > 8 {
			id = id[:8]
		}
		last := "-"
		if s.LastTimestamp != nil {
			last = s.LastTimestamp.Format("2006-01-02")
		}
		row := fmt.Sprintf("%-10s %-24s %-12s %8d %10d %-16s",
			id, truncate(s.Project, 24), last, s.MessageCount, s.Tokens.Total(), truncate(s.Branch, 16))

		if i == m.sessionIdx {
			b.WriteString(styleSelectedRow.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
