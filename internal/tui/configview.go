package tui

import (
	"fmt"
	"sort"
	"strings"
)

func (m Model) renderConfig() string {
	var b strings.Builder

	b.WriteString(styleHeader.Render("Settings"))
	b.WriteString("\n")
	if len(m.settings.Values) == 0 {
		b.WriteString(styleDimmed.Render("no settings loaded"))
	} else {
		keys := make([]string, 0, len(m.settings.Values))
		for k := range m.settings.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			layer := m.settings.Provenance[k]
			b.WriteString(fmt.Sprintf("  %-24s %-40v %s\n", k, m.settings.Values[k], styleDimmed.Render(layer.String())))
		}
	}

	b.WriteString("\n")
	b.WriteString(styleHeader.Render("MCP servers"))
	b.WriteString("\n")
	if len(m.mcp.Servers) == 0 {
		b.WriteString(styleDimmed.Render("none configured"))
	} else {
		names := make([]string, 0, len(m.mcp.Servers))
		for name := range m.mcp.Servers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			srv := m.mcp.Servers[name]
			b.WriteString(fmt.Sprintf("  %-20s %s %s\n", name, srv.Command, strings.Join(srv.Args, " ")))
		}
	}

	b.WriteString("\n")
	b.WriteString(styleHeader.Render("Hooks"))
	b.WriteString("\n")
	if len(m.hooks) == 0 {
		b.WriteString(styleDimmed.Render("none installed"))
	} else {
		for _, h := range m.hooks {
			status := "ok"
			if !h.ShebangValid || !h.Executable {
				status = "broken"
			}
			b.WriteString(fmt.Sprintf("  %-24s %s\n", h.Name, status))
		}
	}

	return b.String()
}
