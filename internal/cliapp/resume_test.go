package cliapp

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ccboard/ccboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunResumeReportsAmbiguousForSharedPrefix mirrors the documented
// behavior for two sessions whose ids share a prefix: resume must exit
// ambiguous and list both, without ever reaching the exec step.
func TestRunResumeReportsAmbiguousForSharedPrefix(t *testing.T) {
	home := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(home, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	line := `{"timestamp":"2026-01-10T09:00:00Z","message":{"role":"user","content":"hi","usage":{"input_tokens":1,"output_tokens":1}},"model":"claude-sonnet-4-20250514"}` + "\n"
	write("projects/demo/abc12345-one.jsonl", line)
	write("projects/demo/abc12346-two.jsonl", line)

	prev := config.Keys
	config.Keys = config.ProgramConfig{AssistantHome: home}
	t.Cleanup(func() { config.Keys = prev })

	_, stderr, code := run(t, "resume", "abc123")
	assert.Equal(t, ExitAmbiguous, code)
	assert.Contains(t, stderr, "abc12345-one")
	assert.Contains(t, stderr, "abc12346-two")
}

func TestRunResumeFailsWhenAssistantBinaryMissing(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("resume's process-replacement path only runs on non-windows")
	}
	withTestHome(t)

	emptyPath := t.TempDir()
	t.Setenv("PATH", emptyPath)

	_, stderr, code := run(t, "resume", "abc12345")
	assert.Equal(t, ExitIOFailure, code)
	assert.Contains(t, stderr, assistantBinary)
}
