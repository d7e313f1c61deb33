package parsers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatsMissingFileReturnsImmediately(t *testing.T) {
	start := time.Now()
	_, err := ParseStats(filepath.Join(t.TempDir(), "does-not-exist.json"))
	elapsed := time.Since(start)

	require.Error(t, err)
	loadErr, ok := err.(models.LoadError)
	require.True(t, ok)
	assert.Equal(t, models.ErrMissing, loadErr.Kind)
	assert.Less(t, elapsed, statsRetryDelay, "a missing file must not pay any retry delay")
}

func TestParseStatsRetriesMalformedJSONThenSucceeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"models": not json`), 0o644))

	done := make(chan struct{})
	go func() {
		time.Sleep(statsRetryDelay + statsRetryDelay/2)
		require.NoError(t, os.WriteFile(path, []byte(`{"models":{"claude-sonnet-4-20250514":{"input_tokens":10,"output_tokens":5}}}`), 0o644))
		close(done)
	}()

	cache, err := ParseStats(path)
	<-done

	require.NoError(t, err)
	assert.Equal(t, int64(10), cache.TotalTokens.Input)
	assert.Equal(t, int64(5), cache.TotalTokens.Output)
}

func TestParseStatsGivesUpAfterExhaustingRetries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json at all`), 0o644))

	start := time.Now()
	_, err := ParseStats(path)
	elapsed := time.Since(start)

	require.Error(t, err)
	loadErr, ok := err.(models.LoadError)
	require.True(t, ok)
	assert.Equal(t, models.ErrMissing, loadErr.Kind, "exhausted retries fall back to Missing")
	assert.GreaterOrEqual(t, elapsed, statsRetries*statsRetryDelay)
}

func TestParseStatsByModelAndHourlyCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats-cache.json")
	body := `{
		"models": {
			"claude-opus-4-20250514": {
				"input_tokens": 100,
				"output_tokens": 40,
				"cache_read_input_tokens": 20,
				"cache_creation_input_tokens": 5
			}
		},
		"hourly_counts": [1,2,3]
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cache, err := ParseStats(path)
	require.NoError(t, err)

	mu, ok := cache.ByModel["claude-opus-4-20250514"]
	require.True(t, ok)
	assert.Equal(t, int64(100), mu.Tokens.Input)
	assert.Equal(t, int64(40), mu.Tokens.Output)
	assert.Equal(t, int64(20), mu.Tokens.CacheRead)
	assert.Equal(t, int64(5), mu.Tokens.CacheWrite)
	assert.Equal(t, int64(1), cache.HourlyCount[0])
	assert.Equal(t, int64(3), cache.HourlyCount[2])
	assert.False(t, cache.LoadedAt.IsZero())
}
