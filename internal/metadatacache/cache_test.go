package metadatacache

import (
	"testing"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(":memory:")
	require.NoError(t, err, "Open should succeed against an in-memory database")
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCreatesSchema(t *testing.T) {
	c := openTestCache(t)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a fresh cache starts empty")
}

func TestInsertAndLookupRoundTrip(t *testing.T) {
	c := openTestCache(t)

	meta := models.SessionMetadata{
		ID:      "sess-1",
		Path:    "/home/u/.claude/projects/demo/sess-1.jsonl",
		Project: "demo",
		Branch:  "main",
		Tokens:  models.TokenCounts{Input: 100, Output: 50},
		Mtime:   1000,
	}

	require.NoError(t, c.InsertOrReplace(meta))

	t.Run("hit when mtime matches", func(t *testing.T) {
		got, ok, err := c.Lookup("sess-1", 1000)
		require.NoError(t, err)
		require.True(t, ok, "expected a cache hit")
		assert.Equal(t, meta.Tokens, got.Tokens)
		assert.Equal(t, meta.Branch, got.Branch)
	})

	t.Run("miss when mtime differs", func(t *testing.T) {
		_, ok, err := c.Lookup("sess-1", 2000)
		require.NoError(t, err)
		assert.False(t, ok, "a stale mtime must not be served from cache")
	})

	t.Run("miss on unknown id", func(t *testing.T) {
		_, ok, err := c.Lookup("does-not-exist", 1000)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestInsertOrReplaceOverwrites(t *testing.T) {
	c := openTestCache(t)

	first := models.SessionMetadata{ID: "sess-1", Project: "demo", Mtime: 1, Tokens: models.TokenCounts{Input: 1}}
	second := models.SessionMetadata{ID: "sess-1", Project: "demo", Mtime: 2, Tokens: models.TokenCounts{Input: 2}}

	require.NoError(t, c.InsertOrReplace(first))
	require.NoError(t, c.InsertOrReplace(second))

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n, "upsert must not leave a duplicate row")

	got, ok, err := c.Lookup("sess-1", 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.Tokens.Input)
}

func TestInvalidateAndClear(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.InsertOrReplace(models.SessionMetadata{ID: "a", Project: "p", Mtime: 1}))
	require.NoError(t, c.InsertOrReplace(models.SessionMetadata{ID: "b", Project: "p", Mtime: 1}))

	require.NoError(t, c.Invalidate("a"))
	_, ok, err := c.Lookup("a", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := c.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, c.Clear())
	n, err = c.Count()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestProjectIDs(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.InsertOrReplace(models.SessionMetadata{ID: "a", Project: "demo", Mtime: 1}))
	require.NoError(t, c.InsertOrReplace(models.SessionMetadata{ID: "b", Project: "other", Mtime: 1}))

	ids, err := c.ProjectIDs("demo")
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, models.SessionID("a"), ids[0])
}
