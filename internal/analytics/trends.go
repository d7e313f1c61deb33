// Package analytics derives trends, a usage forecast, usage patterns, and
// rule-based insights from the sessions and per-model pricing already
// computed elsewhere. It never touches disk itself.
package analytics

import (
	"sort"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/pricing"
)

// ComputeTrends buckets sessions by calendar day (in the local timezone,
// since that's the timezone the user actually experiences their usage in)
// and returns the series aligned in ascending date order.
func ComputeTrends(sessions []models.SessionMetadata, period models.Period, now time.Time) models.TrendsData {
	cutoff := earliestCutoff(period, now)

	type dayBucket struct {
		tokens   models.TokenCounts
		sessions int64
		cost     float64
		byModel  map[string]int64
	}
	byDay := map[string]*dayBucket{}

	var hourOfDay [24]int64
	var weekday [7]int64

	for _, s := range sessions {
		if s.FirstTimestamp == nil {
			continue
		}
		local := s.FirstTimestamp.Local()
		if !cutoff.IsZero() && local.Before(cutoff) {
			continue
		}
		key := local.Format("2006-01-02")
		b, ok := byDay[key]
		if !ok {
			b = &dayBucket{byModel: map[string]int64{}}
			byDay[key] = b
		}
		b.tokens = b.tokens.Add(s.Tokens)
		b.sessions++
		if len(s.Models) > 0 {
			model := s.Models[0]
			b.cost += pricing.CostForTokens(model, s.Tokens)
			b.byModel[model]++
		}

		hourOfDay[local.Hour()]++
		weekday[mondayFirst(local.Weekday())]++
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	modelNames := map[string]struct{}{}
	for _, b := range byDay {
		for m := range b.byModel {
			modelNames[m] = struct{}{}
		}
	}

	trends := models.TrendsData{
		Dates:            dates,
		HourOfDay:        hourOfDay,
		Weekday:          weekday,
		ModelDailyCounts: make(map[string][]int64, len(modelNames)),
	}
	for m := range modelNames {
		trends.ModelDailyCounts[m] = make([]int64, len(dates))
	}
	trends.DailyTokens = make([]int64, len(dates))
	trends.DailySessionCount = make([]int64, len(dates))
	trends.DailyCost = make([]float64, len(dates))

	for i, d := range dates {
		b := byDay[d]
		trends.DailyTokens[i] = b.tokens.Total()
		trends.DailySessionCount[i] = b.sessions
		trends.DailyCost[i] = b.cost
		for m, count := range b.byModel {
			trends.ModelDailyCounts[m][i] = count
		}
	}

	return trends
}

func earliestCutoff(period models.Period, now time.Time) time.Time {
	if period.Kind != "last_n_days" || period.N <= 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -period.N)
}

// mondayFirst remaps time.Weekday (Sunday=0) to an index where Monday=0,
// matching TrendsData.Weekday's documented convention.
func mondayFirst(w time.Weekday) int {
	return (int(w) + 6) % 7
}
