package parsers

import (
	"strings"

	"github.com/ccboard/ccboard/internal/models"
)

// ExtractInvocations scans one session's already-parsed content for agent,
// slash-command, and skill usage. It never touches disk: callers assemble
// the cross-session totals by repeatedly calling MergeInvocations.
func ExtractInvocations(content models.SessionContent) models.InvocationStats {
	stats := models.NewInvocationStats()
	for _, msg := range content.Messages {
		switch msg.Role {
		case models.RoleAssistant:
			for _, tc := range msg.ToolCalls {
				switch tc.Name {
				case "Task":
					if tc.SubagentType != "" {
						stats.Agents[tc.SubagentType]++
					}
				case "Skill":
					if name, ok := tc.Input["skill"].(string); ok && name != "" {
						stats.Skills[name]++
					} else if name, ok := tc.Input["name"].(string); ok && name != "" {
						stats.Skills[name]++
					}
				}
			}
		case models.RoleUser:
			if cmd, ok := slashCommandName(msg.Text); ok {
				stats.Commands[cmd]++
			}
		}
	}
	return stats
}

// slashCommandName reports the command name when text's first non-blank
// line invokes a slash command, e.g. "/review src/foo.go" -> "review".
func slashCommandName(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return "", false
	}
	trimmed = trimmed[1:]
	end := strings.IndexAny(trimmed, " \t\n")
	if end == -1 {
		end = len(trimmed)
	}
	name := trimmed[:end]
	if name == "" {
		return "", false
	}
	return name, true
}

// MergeInvocations adds src's counts into dst in place.
func MergeInvocations(dst models.InvocationStats, src models.InvocationStats) {
	for k, v := range src.Agents {
		dst.Agents[k] += v
	}
	for k, v := range src.Commands {
		dst.Commands[k] += v
	}
	for k, v := range src.Skills {
		dst.Skills[k] += v
	}
}
