package analytics

import "github.com/ccboard/ccboard/internal/models"

// minDaysForForecast is the minimum number of daily data points needed
// before a linear-regression forecast is considered meaningful. Below
// this, the trend line is dominated by noise rather than signal.
const minDaysForForecast = 7

// ComputeForecast fits a simple linear regression to trends' daily token
// series and projects 30 days forward. With fewer than minDaysForForecast
// data points it returns Available=false rather than a misleadingly
// precise-looking number.
func ComputeForecast(trends models.TrendsData, avgCostPerToken float64) models.ForecastData {
	n := len(trends.Dates)
	if n < minDaysForForecast {
		return models.ForecastData{
			Available:         false,
			UnavailableReason: "Insufficient data (<7 days)",
		}
	}

	slope, intercept, rSquared := linearRegression(trends.DailyTokens)

	next30Total := int64(0)
	for day := n; day < n+30; day++ {
		v := slope*float64(day) + intercept
		if v < 0 {
			v = 0
		}
		next30Total += int64(v)
	}

	confidence := rSquared
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	// A trend is "stable" when the slope is small relative to the series'
	// general level (intercept), not relative to its average magnitude -
	// a fast-growing series with a near-zero starting point would otherwise
	// never qualify as trending. Once a slope clears that bar, the figure
	// shown to the user is the slope projected 30 days out and expressed as
	// a percentage of the baseline, not the raw per-day slope ratio.
	direction := models.ForecastDirection{Kind: "stable"}
	if absIntercept := absFloat(intercept); absIntercept > 0 && absFloat(slope) >= 0.01*absIntercept {
		projectedPct := slope * 30 / intercept * 100
		switch {
		case projectedPct > 0:
			direction = models.ForecastDirection{Kind: "up", Pct: projectedPct}
		case projectedPct < 0:
			direction = models.ForecastDirection{Kind: "down", Pct: -projectedPct}
		}
	}

	costEstimate := float64(next30Total) * avgCostPerToken

	return models.ForecastData{
		Available:           true,
		Slope:               slope,
		Intercept:           intercept,
		RSquared:            rSquared,
		Next30DaysTokens:    next30Total,
		Next30DaysCost:      costEstimate,
		MonthlyCostEstimate: costEstimate,
		Direction:           direction,
		Confidence:          confidence,
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// linearRegression fits y = slope*x + intercept over x = 0..len(y)-1 using
// ordinary least squares, returning the R-squared goodness of fit.
func linearRegression(y []int64) (slope, intercept, rSquared float64) {
	n := float64(len(y))
	if n == 0 {
		return 0, 0, 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, v := range y {
		x := float64(i)
		fy := float64(v)
		sumX += x
		sumY += fy
		sumXY += x * fy
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, v := range y {
		x := float64(i)
		fy := float64(v)
		pred := slope*x + intercept
		ssRes += (fy - pred) * (fy - pred)
		ssTot += (fy - meanY) * (fy - meanY)
	}
	if ssTot == 0 {
		rSquared = 1
	} else {
		rSquared = 1 - ssRes/ssTot
	}
	return slope, intercept, rSquared
}
