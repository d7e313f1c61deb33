package analytics

import (
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkSession(id string, when time.Time, tokens int64, model string) models.SessionMetadata {
	return models.SessionMetadata{
		ID:             models.SessionID(id),
		FirstTimestamp: &when,
		LastTimestamp:  &when,
		Tokens:         models.TokenCounts{Input: tokens},
		Models:         []string{model},
	}
}

func TestComputeTrendsBucketsByDay(t *testing.T) {
	day1 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 1, 11, 14, 0, 0, 0, time.UTC)
	sessions := []models.SessionMetadata{
		mkSession("a", day1, 100, "claude-sonnet-4-20250514"),
		mkSession("b", day1, 50, "claude-sonnet-4-20250514"),
		mkSession("c", day2, 200, "claude-opus-4-20250514"),
	}

	trends := ComputeTrends(sessions, models.AllLoaded(), time.Now())

	require.Len(t, trends.Dates, 2)
	assert.Equal(t, int64(150), trends.DailyTokens[0])
	assert.Equal(t, int64(2), trends.DailySessionCount[0])
	assert.Equal(t, int64(200), trends.DailyTokens[1])
}

func TestComputeTrendsFiltersByPeriod(t *testing.T) {
	now := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -40)
	recent := now.AddDate(0, 0, -2)
	sessions := []models.SessionMetadata{
		mkSession("old", old, 10, "claude-sonnet-4-20250514"),
		mkSession("recent", recent, 20, "claude-sonnet-4-20250514"),
	}

	trends := ComputeTrends(sessions, models.LastNDays(7), now)

	require.Len(t, trends.Dates, 1)
	assert.Equal(t, int64(20), trends.DailyTokens[0])
}

func TestComputeTrendsSkipsSessionsWithoutTimestamp(t *testing.T) {
	sessions := []models.SessionMetadata{{ID: "no-ts", Tokens: models.TokenCounts{Input: 10}}}
	trends := ComputeTrends(sessions, models.AllLoaded(), time.Now())
	assert.Empty(t, trends.Dates)
}

func TestMondayFirstRemapsSundayToIndexSix(t *testing.T) {
	assert.Equal(t, 6, mondayFirst(time.Sunday))
	assert.Equal(t, 0, mondayFirst(time.Monday))
}
