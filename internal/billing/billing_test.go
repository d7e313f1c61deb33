package billing

import (
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBlockStartAlignsToFiveHourWindows(t *testing.T) {
	a := BlockStart(ts("2026-01-01T00:00:00Z"))
	b := BlockStart(ts("2026-01-01T04:59:59Z"))
	c := BlockStart(ts("2026-01-01T05:00:01Z"))

	assert.True(t, a.Equal(b), "both times fall in the same 5h window")
	assert.False(t, a.Equal(c), "05:00:01 should fall in the next window")
}

func TestUpdateSessionIsIdempotent(t *testing.T) {
	m := NewManager()
	first := ts("2026-01-01T01:00:00Z")
	meta := models.SessionMetadata{
		ID:             "s1",
		FirstTimestamp: &first,
		Tokens:         models.TokenCounts{Input: 1000, Output: 500},
	}

	m.UpdateSession("s1", meta, "claude-sonnet-4-20250514")
	m.UpdateSession("s1", meta, "claude-sonnet-4-20250514")

	block := m.CurrentBlock(first)
	assert.Equal(t, 1, block.SessionCount, "re-applying the same session must not double count")
	assert.Equal(t, int64(1000), block.Tokens.Input)
}

func TestUpdateSessionMovesBlockOnTimestampChange(t *testing.T) {
	m := NewManager()
	early := ts("2026-01-01T01:00:00Z")
	late := ts("2026-01-01T06:00:00Z")

	meta := models.SessionMetadata{ID: "s1", FirstTimestamp: &early, Tokens: models.TokenCounts{Input: 100}}
	m.UpdateSession("s1", meta, "claude-sonnet-4-20250514")

	meta.FirstTimestamp = &late
	m.UpdateSession("s1", meta, "claude-sonnet-4-20250514")

	oldBlock := m.CurrentBlock(early)
	newBlock := m.CurrentBlock(late)
	assert.Equal(t, 0, oldBlock.SessionCount, "old block should be empty after the session moved")
	assert.Equal(t, 1, newBlock.SessionCount)
}

func TestRemoveSession(t *testing.T) {
	m := NewManager()
	first := ts("2026-01-01T01:00:00Z")
	meta := models.SessionMetadata{ID: "s1", FirstTimestamp: &first, Tokens: models.TokenCounts{Input: 100}}
	m.UpdateSession("s1", meta, "claude-sonnet-4-20250514")
	m.RemoveSession("s1")

	block := m.CurrentBlock(first)
	assert.Equal(t, 0, block.SessionCount)
}

func TestQuotaStatusThresholds(t *testing.T) {
	budget := models.BudgetConfig{MonthlyBudgetUSD: 100, AlertThresholdPct: 90}
	now := ts("2026-01-15T00:00:00Z")

	cases := []struct {
		cost float64
		want models.AlertLevel
	}{
		{cost: 50, want: models.AlertSafe},
		{cost: 65, want: models.AlertWarning},
		{cost: 85, want: models.AlertCritical},
		{cost: 91, want: models.AlertExceeded},
		{cost: 150, want: models.AlertExceeded},
	}
	for _, tc := range cases {
		status := ComputeQuotaStatus(budget, models.TokenCounts{}, tc.cost, now)
		assert.Equal(t, tc.want, status.AlertLevel, "cost=%v", tc.cost)
	}
}

func TestQuotaStatusAlertThresholdAtWarningBoundaryDoesNotNarrowCritical(t *testing.T) {
	// Direct adaptation of the budget-alert scenario: a threshold equal to
	// the Warning/Critical boundary (80) must not pull the Exceeded cutoff
	// down to 80 - Critical still covers up to 100.
	budget := models.BudgetConfig{MonthlyBudgetUSD: 50.0, AlertThresholdPct: 80.0}
	now := ts("2026-01-15T00:00:00Z")

	status := ComputeQuotaStatus(budget, models.TokenCounts{}, 42.50, now)

	assert.Equal(t, 85.0, status.UsagePercent)
	assert.Equal(t, models.AlertCritical, status.AlertLevel)
}

func TestQuotaStatusNoBudgetIsSafe(t *testing.T) {
	status := ComputeQuotaStatus(models.BudgetConfig{}, models.TokenCounts{}, 1000, time.Now())
	assert.Equal(t, models.AlertSafe, status.AlertLevel)
}

func TestQuotaUsagePercentClampsAtHundred(t *testing.T) {
	budget := models.BudgetConfig{MonthlyBudgetUSD: 10}
	status := ComputeQuotaStatus(budget, models.TokenCounts{}, 50, ts("2026-01-15T00:00:00Z"))
	assert.Equal(t, 100.0, status.UsagePercent)
}
