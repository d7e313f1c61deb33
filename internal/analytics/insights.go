package analytics

import (
	"fmt"

	"github.com/ccboard/ccboard/internal/models"
)

// ComputeInsights turns trends/forecast/patterns into a short list of
// plain-English observations. Each rule is independent; any subset may
// fire, in a fixed priority order so the most actionable insight leads.
func ComputeInsights(trends models.TrendsData, forecast models.ForecastData, patterns models.UsagePatterns) []string {
	var out []string

	if forecast.Available && forecast.Direction.Kind == "up" && forecast.Direction.Pct >= 20 {
		out = append(out, fmt.Sprintf("Token usage is trending up %.0f%% over the next 30 days - at this rate you may exceed your usual spend well before month end.", forecast.Direction.Pct))
	}
	if forecast.Available && forecast.Direction.Kind == "down" && forecast.Direction.Pct >= 20 {
		out = append(out, fmt.Sprintf("Token usage is trending down %.0f%% over the next 30 days.", forecast.Direction.Pct))
	}

	if patterns.MostUsedModel != "" {
		if share := patterns.ModelShareByCost[patterns.MostUsedModel]; share >= 0.8 {
			out = append(out, fmt.Sprintf("%s accounts for %.0f%% of your cost - consider a cheaper model for routine tasks.", patterns.MostUsedModel, share*100))
		}
	}

	if len(patterns.PeakHours) > 0 {
		out = append(out, fmt.Sprintf("Most of your usage happens around hour %d - sessions cluster tightly around this time.", patterns.MostProductiveHour))
	}

	if patterns.AvgSessionDuration > 0 && patterns.AvgSessionDuration.Hours() >= 2 {
		out = append(out, "Average session length is over 2 hours - long-running sessions may benefit from periodic context resets.")
	}

	if len(trends.Dates) >= 2 {
		last := trends.DailySessionCount[len(trends.DailySessionCount)-1]
		prev := trends.DailySessionCount[len(trends.DailySessionCount)-2]
		if prev > 0 && last == 0 {
			out = append(out, "No sessions recorded yesterday after a prior day of activity.")
		}
	}

	if !forecast.Available {
		out = append(out, "Not enough usage history yet to forecast a trend - check back after a week of activity.")
	}

	return out
}
