package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

var artifactKinds = []string{"agents", "commands", "skills"}

func (m Model) handleArtifactsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.artifactIdx > 0 {
			m.artifactIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.artifactIdx < len(m.artifacts)-1 {
			m.artifactIdx++
		}
	case key.Matches(msg, m.keys.Cycle):
		m.cycleArtifactKind(1)
	case key.Matches(msg, m.keys.Enter):
		if m.artifactIdx < len(m.artifacts) {
			doc := m.artifacts[m.artifactIdx]
			m.detailView.SetContent(renderArtifactBody(doc.Body))
			m.detailView.GotoTop()
			m.showDetail = true
		}
	}
	return m, nil
}

func (m *Model) cycleArtifactKind(delta int) {
	idx := 0
	for i, k := range artifactKinds {
		if k == m.artifactKind {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(artifactKinds)) % len(artifactKinds)
	m.artifactKind = artifactKinds[idx]
	m.artifactIdx = 0
	m.reloadArtifactGroup()
}

// renderArtifactBody renders a Markdown agent/command/skill body for the
// detail viewport, falling back to the raw text if rendering fails.
func renderArtifactBody(body string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return body
	}
	out, err := r.Render(body)
	if err != nil {
		return body
	}
	return out
}

func (m Model) renderArtifacts() string {
	var b strings.Builder
	b.WriteString(styleDimmed.Render(fmt.Sprintf("kind: %s  ([c] to cycle agents/commands/skills)", m.artifactKind)))
	b.WriteString("\n\n")

	if len(m.artifacts) == 0 {
		b.WriteString(styleDimmed.Render("none found"))
		return b.String()
	}

	for i, a := range m.artifacts {
		name := a.Name
		if name == "" {
			name = a.Path
		}
		if i == m.artifactIdx {
			b.WriteString(styleSelectedRow.Render("> " + name))
		} else {
			b.WriteString("  " + name)
		}
		b.WriteString("\n")
	}
	return b.String()
}
