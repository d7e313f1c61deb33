package analytics

import (
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeUsagePatternsModelShareSumsToOne(t *testing.T) {
	first := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	last := first.Add(90 * time.Minute)
	sessions := []models.SessionMetadata{
		{ID: "a", FirstTimestamp: &first, LastTimestamp: &last, Tokens: models.TokenCounts{Input: 300}, Models: []string{"claude-sonnet-4-20250514"}},
		{ID: "b", FirstTimestamp: &first, LastTimestamp: &last, Tokens: models.TokenCounts{Input: 700}, Models: []string{"claude-opus-4-20250514"}},
	}
	trends := ComputeTrends(sessions, models.AllLoaded(), time.Now())

	p := ComputeUsagePatterns(sessions, trends)

	var sum float64
	for _, share := range p.ModelShareByTokens {
		sum += share
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Equal(t, "claude-opus-4-20250514", p.MostUsedModel)
	assert.Equal(t, 90*time.Minute, p.AvgSessionDuration)
}

func TestComputeUsagePatternsEmptySessions(t *testing.T) {
	p := ComputeUsagePatterns(nil, models.TrendsData{})
	assert.Empty(t, p.MostUsedModel)
	assert.Zero(t, p.AvgSessionDuration)
}

func TestPeakHoursReturnsPlateauAroundMax(t *testing.T) {
	var hours [24]int64
	hours[9] = 10
	hours[10] = 8
	hours[14] = 1

	peaks := peakHours(hours)

	require.NotEmpty(t, peaks)
	assert.Contains(t, peaks, 9)
	assert.Contains(t, peaks, 10)
	assert.NotContains(t, peaks, 14)
}

func TestArgMaxPicksFirstOnTie(t *testing.T) {
	assert.Equal(t, 0, argMax([]int64{5, 5, 1}))
}
