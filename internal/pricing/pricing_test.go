package pricing

import (
	"testing"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRecalculateIsIdempotent(t *testing.T) {
	cache := models.StatsCache{
		ByModel: map[string]*models.ModelUsage{
			"claude-sonnet-4-20250514": {
				Model:  "claude-sonnet-4-20250514",
				Tokens: models.TokenCounts{Input: 1_000_000, Output: 500_000, CacheRead: 200_000, CacheWrite: 100_000},
			},
		},
	}

	first := Recalculate(cache)
	second := Recalculate(first)

	assert.Equal(t, first.TotalCost, second.TotalCost)
	assert.Equal(t, first.ByModel["claude-sonnet-4-20250514"].Cost, second.ByModel["claude-sonnet-4-20250514"].Cost)
}

func TestRecalculateIgnoresPriorCost(t *testing.T) {
	cache := models.StatsCache{
		ByModel: map[string]*models.ModelUsage{
			"claude-3-5-haiku-20241022": {
				Model:  "claude-3-5-haiku-20241022",
				Tokens: models.TokenCounts{Input: 1_000_000, Output: 1_000_000},
				Cost:   999999, // a bogus figure the snapshot might have carried
			},
		},
	}

	got := Recalculate(cache)
	assert.InDelta(t, 0.80+4.00, got.ByModel["claude-3-5-haiku-20241022"].Cost, 1e-9)
}

func TestUnknownModelUsesDefaultRate(t *testing.T) {
	cost := CostForTokens("some-future-model", models.TokenCounts{Input: 1_000_000, Output: 1_000_000})
	assert.InDelta(t, 3.00+15.00, cost, 1e-9)
}

func TestCacheMultipliers(t *testing.T) {
	writeCost := CostForTokens("claude-sonnet-4-20250514", models.TokenCounts{CacheWrite: 1_000_000})
	readCost := CostForTokens("claude-sonnet-4-20250514", models.TokenCounts{CacheRead: 1_000_000})

	assert.InDelta(t, 3.00*1.25, writeCost, 1e-9)
	assert.InDelta(t, 3.00*0.10, readCost, 1e-9)
}

func TestTotalCostSumsAllModels(t *testing.T) {
	cache := models.StatsCache{
		ByModel: map[string]*models.ModelUsage{
			"claude-opus-4-20250514":   {Model: "claude-opus-4-20250514", Tokens: models.TokenCounts{Input: 1_000_000}},
			"claude-3-haiku-20240307":  {Model: "claude-3-haiku-20240307", Tokens: models.TokenCounts{Input: 1_000_000}},
		},
	}
	got := Recalculate(cache)
	assert.InDelta(t, 15.00+0.25, got.TotalCost, 1e-9)
}
