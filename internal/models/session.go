// Package models defines the entity types shared by every other ccboard
// package: session descriptors, configuration snapshots, and the
// diagnostic records produced while loading them.
package models

import (
	"strings"
	"time"
)

// SessionID is an opaque session identifier. It is a distinct type (not a
// bare string) so that callers cannot accidentally pass a project name or
// file path where a session id is expected.
type SessionID string

// TokenCounts holds the four token sub-counts tracked for a session or any
// aggregate derived from one or more sessions.
type TokenCounts struct {
	Input      int64 `json:"input"`
	Output     int64 `json:"output"`
	CacheRead  int64 `json:"cache_read"`
	CacheWrite int64 `json:"cache_write"`
}

// Total returns input+output+cache_read+cache_write.
func (t TokenCounts) Total() int64 {
	return t.Input + t.Output + t.CacheRead + t.CacheWrite
}

// Add returns the element-wise sum of t and o.
func (t TokenCounts) Add(o TokenCounts) TokenCounts {
	return TokenCounts{
		Input:      t.Input + o.Input,
		Output:     t.Output + o.Output,
		CacheRead:  t.CacheRead + o.CacheRead,
		CacheWrite: t.CacheWrite + o.CacheWrite,
	}
}

// Sub returns the element-wise difference t-o, floored at zero per field.
func (t TokenCounts) Sub(o TokenCounts) TokenCounts {
	sub := func(a, b int64) int64 {
		if a-b < 0 {
			return 0
		}
		return a - b
	}
	return TokenCounts{
		Input:      sub(t.Input, o.Input),
		Output:     sub(t.Output, o.Output),
		CacheRead:  sub(t.CacheRead, o.CacheRead),
		CacheWrite: sub(t.CacheWrite, o.CacheWrite),
	}
}

// SessionMetadata is the lightweight per-session descriptor produced by the
// SessionIndex parser and persisted in the MetadataCache. It is immutable
// once constructed; updates replace the value, they never mutate it in
// place (see internal/datastore).
type SessionMetadata struct {
	ID             SessionID
	Path           string
	Project        string
	FirstTimestamp *time.Time
	LastTimestamp  *time.Time
	MessageCount   int
	Tokens         TokenCounts
	Models         []string
	FirstSnippet   string
	Branch         string
	HasSubagents   bool
	Mtime          int64 // unix nanoseconds of the source file at parse time
}

// Valid reports whether the metadata satisfies its basic invariants:
// ordered timestamps, non-negative token counts, deduplicated models.
func (m SessionMetadata) Valid() bool {
	if m.FirstTimestamp != nil && m.LastTimestamp != nil && m.FirstTimestamp.After(*m.LastTimestamp) {
		return false
	}
	if m.Tokens.Input < 0 || m.Tokens.Output < 0 || m.Tokens.CacheRead < 0 || m.Tokens.CacheWrite < 0 {
		return false
	}
	seen := make(map[string]struct{}, len(m.Models))
	for _, mo := range m.Models {
		if _, ok := seen[mo]; ok {
			return false
		}
		seen[mo] = struct{}{}
	}
	return true
}

// NormalizeBranch strips a "worktrees/" prefix, strips a trailing " (dirty)"
// suffix, and collapses "HEAD (detached at ...)" to "HEAD".
func NormalizeBranch(branch string) string {
	b := strings.TrimSpace(branch)
	if b == "" {
		return b
	}
	b = strings.TrimSuffix(b, " (dirty)")
	b = strings.TrimPrefix(b, "worktrees/")
	if strings.HasPrefix(b, "HEAD (detached at") {
		return "HEAD"
	}
	return b
}

// Role enumerates the speaker of a SessionContent message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
	RoleSystem    Role = "system"
)

// RoleFromString maps a raw JSONL "role" or "type" field to a Role,
// returning "" for values that do not correspond to a renderable message
// (e.g. "summary" or "file-history-snapshot" records).
func RoleFromString(s string) Role {
	switch s {
	case "user":
		return RoleUser
	case "assistant":
		return RoleAssistant
	case "tool", "tool_result":
		return RoleTool
	case "system":
		return RoleSystem
	default:
		return ""
	}
}

// ToolCall records a single tool invocation found inside an assistant
// message.
type ToolCall struct {
	Name         string
	SubagentType string // populated when Name == "Task"
	Input        map[string]any
}

// Message is one entry in a SessionContent's ordered list.
type Message struct {
	Role      Role
	Text      string
	Timestamp *time.Time
	ToolCalls []ToolCall
	Usage     *TokenCounts
	Model     string
}

// SessionContent is the full, ordered message list for one session,
// produced lazily on demand by the SessionContent parser
// and cached with a size-bounded, time-expiring policy (see
// internal/contentcache).
type SessionContent struct {
	ID       SessionID
	Messages []Message
}
