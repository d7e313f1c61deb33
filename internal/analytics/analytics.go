package analytics

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
)

// Compute runs the full trends -> forecast -> patterns -> insights pipeline
// over the given sessions for period, as of now.
func Compute(sessions []models.SessionMetadata, period models.Period, now time.Time) models.AnalyticsData {
	trends := ComputeTrends(sessions, period, now)
	forecast := ComputeForecast(trends, avgCostPerToken(trends))
	patterns := ComputeUsagePatterns(sessions, trends)
	insights := ComputeInsights(trends, forecast, patterns)

	return models.AnalyticsData{
		Trends:     trends,
		Forecast:   forecast,
		Patterns:   patterns,
		Insights:   insights,
		ComputedAt: now,
		Period:     period,
	}
}

// avgCostPerToken derives a blended cost-per-token rate from the trends
// window, used to turn the forecast's projected token count into a dollar
// estimate without re-deriving a per-model breakdown.
func avgCostPerToken(trends models.TrendsData) float64 {
	var totalTokens int64
	var totalCost float64
	for i, t := range trends.DailyTokens {
		totalTokens += t
		totalCost += trends.DailyCost[i]
	}
	if totalTokens == 0 {
		return 0
	}
	return totalCost / float64(totalTokens)
}
