package analytics

import (
	"testing"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeInsightsUnavailableForecastYieldsNotice(t *testing.T) {
	insights := ComputeInsights(models.TrendsData{}, models.ForecastData{Available: false}, models.UsagePatterns{})
	assert.Contains(t, insights, "Not enough usage history yet to forecast a trend - check back after a week of activity.")
}

func TestComputeInsightsDominantModelFlagged(t *testing.T) {
	patterns := models.UsagePatterns{
		MostUsedModel:  "claude-opus-4-20250514",
		ModelShareByCost: map[string]float64{"claude-opus-4-20250514": 0.95},
	}
	insights := ComputeInsights(models.TrendsData{}, models.ForecastData{Available: true}, patterns)

	found := false
	for _, s := range insights {
		if s == "claude-opus-4-20250514 accounts for 95% of your cost - consider a cheaper model for routine tasks." {
			found = true
		}
	}
	assert.True(t, found)
}

func TestComputeInsightsUpwardTrendFlagged(t *testing.T) {
	forecast := models.ForecastData{Available: true, Direction: models.ForecastDirection{Kind: "up", Pct: 30}}
	insights := ComputeInsights(models.TrendsData{}, forecast, models.UsagePatterns{})

	found := false
	for _, s := range insights {
		if s == "Token usage is trending up 30% over the next 30 days - at this rate you may exceed your usual spend well before month end." {
			found = true
		}
	}
	assert.True(t, found)
}

func TestComputeInsightsNoFlagsWhenNothingNotable(t *testing.T) {
	insights := ComputeInsights(models.TrendsData{}, models.ForecastData{Available: true}, models.UsagePatterns{})
	assert.Empty(t, insights)
}
