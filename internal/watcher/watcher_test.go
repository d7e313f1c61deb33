package watcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		kind CommandKind
		ok   bool
	}{
		{"/home/u/.claude/projects/demo/abc.jsonl", CmdSessionChanged, true},
		{"/home/u/.claude/stats-cache.json", CmdStatsChanged, true},
		{"/home/u/.claude/settings.json", CmdSettingsChanged, true},
		{"/home/u/.claude/settings.local.json", CmdSettingsChanged, true},
		{"/home/u/.claude/claude_desktop_config.json", CmdMcpChanged, true},
		{"/home/u/.claude/hooks/bash/pre-commit.sh", CmdHooksChanged, true},
		{"/home/u/.claude/agents/reviewer.md", CmdFrontmatterChanged, true},
		{"/home/u/.claude/commands/deploy.md", CmdFrontmatterChanged, true},
		{"/home/u/.claude/skills/foo/SKILL.md", CmdFrontmatterChanged, true},
		{"/home/u/.claude/README.txt", 0, false},
	}
	for _, tc := range cases {
		kind, ok := classify(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		if tc.ok {
			assert.Equal(t, tc.kind, kind, tc.path)
		}
	}
}

func TestFlushDeliversPendingCommands(t *testing.T) {
	out := make(chan Command, 8)
	w, err := New(out, nil)
	require.NoError(t, err)
	defer w.fsw.Close()

	w.mu.Lock()
	w.pending["/a/b.jsonl"] = CmdSessionChanged
	w.mu.Unlock()

	w.flush()

	select {
	case cmd := <-out:
		assert.Equal(t, CmdSessionChanged, cmd.Kind)
		assert.Equal(t, "/a/b.jsonl", cmd.Path)
	case <-time.After(time.Second):
		t.Fatal("expected a command to be flushed")
	}
}

func TestReportErrorNonBlockingWhenChannelNil(t *testing.T) {
	w, err := New(make(chan Command, 1), nil)
	require.NoError(t, err)
	defer w.fsw.Close()

	assert.NotPanics(t, func() { w.reportError("/x", assertErr{}) })
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
