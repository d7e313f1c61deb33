package models

import (
	"fmt"
	"time"
)

// Period selects the window analytics is computed over.
type Period struct {
	// Kind is either "last_n_days" or "all_loaded".
	Kind string
	N    int
}

// LastNDays builds a Period covering the last n days.
func LastNDays(n int) Period { return Period{Kind: "last_n_days", N: n} }

// AllLoaded builds a Period covering every loaded session.
func AllLoaded() Period { return Period{Kind: "all_loaded"} }

// Key returns a stable cache key for the period.
func (p Period) Key() string {
	if p.Kind == "last_n_days" {
		return fmt.Sprintf("last_n_days:%d", p.N)
	}
	return "all_loaded"
}

// TrendsData is the first AnalyticsData subproduct.
type TrendsData struct {
	Dates             []string // YYYY-MM-DD, sorted ascending, local timezone
	DailyTokens       []int64
	DailySessionCount []int64
	DailyCost         []float64
	HourOfDay         [24]int64
	Weekday           [7]int64 // index 0 = Monday
	ModelDailyCounts  map[string][]int64 // aligned with Dates
}

// ForecastDirection classifies the ForecastData trend.
type ForecastDirection struct {
	Kind string // "up", "down", "stable"
	Pct  float64
}

// ForecastData is the second AnalyticsData subproduct.
type ForecastData struct {
	Available          bool
	UnavailableReason   string
	Slope              float64
	Intercept          float64
	RSquared           float64
	Next30DaysTokens   int64
	Next30DaysCost     float64
	MonthlyCostEstimate float64
	Direction          ForecastDirection
	Confidence         float64 // alias for RSquared, clamped [0,1]
}

// UsagePatterns is the third AnalyticsData subproduct.
type UsagePatterns struct {
	MostProductiveHour    int
	MostProductiveWeekday int
	AvgSessionDuration    time.Duration
	MostUsedModel         string
	ModelShareByTokens    map[string]float64
	ModelShareByCost      map[string]float64
	PeakHours             []int
}

// AnalyticsData bundles the four subproducts plus cache metadata.
type AnalyticsData struct {
	Trends     TrendsData
	Forecast   ForecastData
	Patterns   UsagePatterns
	Insights   []string
	ComputedAt time.Time
	Period     Period
}
