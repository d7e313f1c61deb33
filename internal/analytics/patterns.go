package analytics

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/pricing"
)

// ComputeUsagePatterns derives model and time-of-day habits from trends and
// the underlying sessions. Model shares come from the sessions directly
// (not trends' daily buckets) so they reflect total tokens/cost rather than
// a day-by-day approximation.
func ComputeUsagePatterns(sessions []models.SessionMetadata, trends models.TrendsData) models.UsagePatterns {
	p := models.UsagePatterns{
		ModelShareByTokens: map[string]float64{},
		ModelShareByCost:   map[string]float64{},
	}

	p.MostProductiveHour = argMax(trends.HourOfDay[:])
	p.MostProductiveWeekday = argMax(trends.Weekday[:])
	p.PeakHours = peakHours(trends.HourOfDay)

	var totalTokens, totalCost float64
	tokensByModel := map[string]float64{}
	costByModel := map[string]float64{}
	var totalDuration time.Duration
	var durationCount int

	for _, s := range sessions {
		if len(s.Models) == 0 {
			continue
		}
		model := s.Models[0]
		tokens := float64(s.Tokens.Total())
		tokensByModel[model] += tokens
		totalTokens += tokens

		cost := pricing.CostForTokens(model, s.Tokens)
		costByModel[model] += cost
		totalCost += cost

		if s.FirstTimestamp != nil && s.LastTimestamp != nil && s.LastTimestamp.After(*s.FirstTimestamp) {
			totalDuration += s.LastTimestamp.Sub(*s.FirstTimestamp)
			durationCount++
		}
	}

	if totalTokens > 0 {
		for m, t := range tokensByModel {
			p.ModelShareByTokens[m] = t / totalTokens
		}
	}
	if totalCost > 0 {
		for m, c := range costByModel {
			p.ModelShareByCost[m] = c / totalCost
		}
	}
	if durationCount > 0 {
		p.AvgSessionDuration = totalDuration / time.Duration(durationCount)
	}

	p.MostUsedModel = mostUsedModel(tokensByModel)

	return p
}

func argMax(counts []int64) int {
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	return best
}

// peakHours returns every hour whose count is at least 75% of the busiest
// hour's count, so "peak" reflects a plateau rather than a single spike.
func peakHours(hourOfDay [24]int64) []int {
	max := int64(0)
	for _, c := range hourOfDay {
		if c > max {
			max = c
		}
	}
	if max == 0 {
		return nil
	}
	threshold := float64(max) * 0.75
	var hours []int
	for h, c := range hourOfDay {
		if float64(c) >= threshold {
			hours = append(hours, h)
		}
	}
	return hours
}

func mostUsedModel(tokensByModel map[string]float64) string {
	best := ""
	bestTokens := -1.0
	for m, t := range tokensByModel {
		if t > bestTokens {
			best = m
			bestTokens = t
		}
	}
	return best
}
