package billing

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
)

// safeThreshold and warningThreshold are fixed usage-percent boundaries;
// the critical/exceeded boundary is configurable per-budget via
// BudgetConfig.AlertThresholdPct, letting a user tighten or loosen how
// early they get a critical warning without code changes.
const (
	safeThreshold    = 60.0
	warningThreshold = 80.0
)

// ComputeQuotaStatus derives a QuotaStatus from month-to-date usage against
// budget. now is passed in explicitly rather than read from time.Now so
// the calculation is deterministic and testable.
func ComputeQuotaStatus(budget models.BudgetConfig, monthTokens models.TokenCounts, monthCost float64, now time.Time) models.QuotaStatus {
	now = now.UTC()
	daysInMonth := daysIn(now.Year(), now.Month())
	daysElapsed := now.Day()

	status := models.QuotaStatus{
		MonthToDateTokens: monthTokens,
		MonthToDateCost:   monthCost,
		DaysElapsed:       daysElapsed,
		DaysInMonth:       daysInMonth,
	}

	if budget.MonthlyBudgetUSD <= 0 {
		status.AlertLevel = models.AlertSafe
		return status
	}

	status.UsagePercent = (monthCost / budget.MonthlyBudgetUSD) * 100
	if status.UsagePercent > 100 {
		status.UsagePercent = 100
	}

	if daysElapsed > 0 {
		dailyRate := monthCost / float64(daysElapsed)
		status.MonthlyProjectionCost = dailyRate * float64(daysInMonth)
	}

	// AlertThresholdPct lets a budget move the Critical/Exceeded boundary
	// in from the default 100%, for a user who wants to be warned before
	// actually hitting their limit. It never moves the boundary out past
	// 100%, and at or below 80% it has no effect - Critical always covers
	// at least [80,100).
	criticalCeiling := 100.0
	if budget.AlertThresholdPct > warningThreshold && budget.AlertThresholdPct < 100 {
		criticalCeiling = budget.AlertThresholdPct
	}

	rawPercent := (monthCost / budget.MonthlyBudgetUSD) * 100
	switch {
	case rawPercent >= 100:
		status.AlertLevel = models.AlertExceeded
	case rawPercent >= criticalCeiling:
		status.AlertLevel = models.AlertExceeded
	case rawPercent >= warningThreshold:
		status.AlertLevel = models.AlertCritical
	case rawPercent >= safeThreshold:
		status.AlertLevel = models.AlertWarning
	default:
		status.AlertLevel = models.AlertSafe
	}

	return status
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
