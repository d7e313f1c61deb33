// Package parsers turns on-disk ASSISTANT_HOME files into models. Every
// exported parse function is a pure function from a path to either a model
// or a recorded models.LoadError — no parser may panic or abort a batch
// because of one bad file.
package parsers

import "strings"

// excludedPrefixes lists the prefixes that make a user message
// non-meaningful for snippet extraction.
var excludedPrefixes = []string{
	"<local-command",
	"<command-",
	"<system-reminder>",
	"Caveat:",
	"[Request interrupted",
	"[Session resumed",
	"[Tool output truncated",
}

// IsMeaningfulUserMessage reports whether text is eligible to be used as a
// session's first-snippet. It is exported so tests and the SessionIndex
// parser share one definition.
func IsMeaningfulUserMessage(text string) bool {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return false
		}
	}
	return true
}

// Snippet truncates text to at most maxLen runes, the way the first
// user-visible message snippet is capped in SessionMetadata.
func Snippet(text string, maxLen int) string {
	r := []rune(strings.TrimSpace(text))
	if len(r) <= maxLen {
		return string(r)
	}
	return string(r[:maxLen])
}
