package analytics

import (
	"testing"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeForecastUnavailableBelowMinDays(t *testing.T) {
	trends := models.TrendsData{
		Dates:       []string{"2026-01-01", "2026-01-02"},
		DailyTokens: []int64{10, 20},
		DailyCost:   []float64{0.1, 0.2},
	}
	f := ComputeForecast(trends, 0.00001)
	assert.False(t, f.Available)
	assert.Equal(t, "Insufficient data (<7 days)", f.UnavailableReason)
}

func TestComputeForecastDetectsUpwardTrend(t *testing.T) {
	dates := make([]string, 10)
	tokens := make([]int64, 10)
	cost := make([]float64, 10)
	for i := range dates {
		dates[i] = "day"
		tokens[i] = int64(1000 * (i + 1))
		cost[i] = float64(tokens[i]) * 0.00001
	}
	trends := models.TrendsData{Dates: dates, DailyTokens: tokens, DailyCost: cost}

	f := ComputeForecast(trends, 0.00001)

	require.True(t, f.Available)
	assert.Greater(t, f.Slope, 0.0)
	assert.InDelta(t, 1.0, f.RSquared, 1e-6)
	assert.Equal(t, "up", f.Direction.Kind)
	assert.GreaterOrEqual(t, f.Confidence, 0.0)
	assert.LessOrEqual(t, f.Confidence, 1.0)
}

func TestComputeForecastFlatSeriesIsStable(t *testing.T) {
	dates := make([]string, 10)
	tokens := make([]int64, 10)
	cost := make([]float64, 10)
	for i := range dates {
		dates[i] = "day"
		tokens[i] = 500
		cost[i] = 0.05
	}
	trends := models.TrendsData{Dates: dates, DailyTokens: tokens, DailyCost: cost}

	f := ComputeForecast(trends, 0.0001)

	require.True(t, f.Available)
	assert.Equal(t, "stable", f.Direction.Kind)
}

func TestLinearRegressionEmptySeries(t *testing.T) {
	slope, intercept, r2 := linearRegression(nil)
	assert.Zero(t, slope)
	assert.Zero(t, intercept)
	assert.Zero(t, r2)
}
