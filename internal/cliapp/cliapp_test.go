package cliapp

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ccboard/ccboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withTestHome points config.Keys.AssistantHome at a throwaway directory
// seeded with two sessions, restoring the prior value on cleanup so tests
// in this package don't leak global state into each other.
func withTestHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(home, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	write("projects/demo-project/abc12345-session.jsonl",
		`{"timestamp":"2026-01-10T09:00:00Z","message":{"role":"user","content":"fix the login bug","usage":{"input_tokens":10,"output_tokens":20}},"model":"claude-sonnet-4-20250514"}`+"\n"+
			`{"timestamp":"2026-01-10T09:01:00Z","message":{"role":"assistant","content":"done","usage":{"input_tokens":5,"output_tokens":5}},"model":"claude-sonnet-4-20250514"}`+"\n")
	write("projects/other-project/def67890-session.jsonl",
		`{"timestamp":"2026-01-11T09:00:00Z","message":{"role":"user","content":"add a feature","usage":{"input_tokens":1,"output_tokens":1}},"model":"claude-sonnet-4-20250514"}`+"\n")
	write("settings.json", `{"budget":{"monthly_budget_usd":50,"alert_threshold_pct":90}}`)

	prev := config.Keys
	config.Keys = config.ProgramConfig{AssistantHome: home, Format: "table"}
	t.Cleanup(func() { config.Keys = prev })
	return home
}

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = Run(Env{Stdout: &outBuf, Stderr: &errBuf, Args: args})
	return outBuf.String(), errBuf.String(), code
}

func TestRunUnknownCommandIsUsageError(t *testing.T) {
	_, stderr, code := run(t, "bogus")
	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestRunStatsReportsQuota(t *testing.T) {
	withTestHome(t)

	stdout, _, code := run(t, "stats")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "quota:")
}

func TestRunRecentListsSessionsMostRecentFirst(t *testing.T) {
	withTestHome(t)

	stdout, _, code := run(t, "recent", "2", "--json")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "def67890-session")
	assert.Less(t, strings.Index(stdout, "def67890-session"), strings.Index(stdout, "abc12345-session"))
}

func TestRunRecentWithNoSessionsReturnsNoResults(t *testing.T) {
	home := t.TempDir()
	prev := config.Keys
	config.Keys = config.ProgramConfig{AssistantHome: home}
	t.Cleanup(func() { config.Keys = prev })

	_, _, code := run(t, "recent", "5")
	assert.Equal(t, ExitNoResults, code)
}

func TestRunSearchFiltersByQuery(t *testing.T) {
	withTestHome(t)

	stdout, _, code := run(t, "search", "login")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "abc12345-session")
	assert.NotContains(t, stdout, "def67890-session")
}

func TestRunSearchWithNoMatchesReturnsNoResults(t *testing.T) {
	withTestHome(t)

	_, _, code := run(t, "search", "nonexistent-topic-xyz")
	assert.Equal(t, ExitNoResults, code)
}

func TestRunInfoResolvesUniquePrefix(t *testing.T) {
	withTestHome(t)

	stdout, _, code := run(t, "info", "abc12345")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "demo-project")
}

func TestRunInfoRejectsShortPrefixAsAmbiguous(t *testing.T) {
	withTestHome(t)

	_, stderr, code := run(t, "info", "abc")
	assert.Equal(t, ExitAmbiguous, code)
	assert.Contains(t, stderr, "ambiguous")
}

func TestRunClearCacheSucceedsOnFreshHome(t *testing.T) {
	withTestHome(t)

	stdout, _, code := run(t, "clear-cache")
	assert.Equal(t, ExitOK, code)
	assert.Contains(t, stdout, "cleared")
}
