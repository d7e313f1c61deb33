package models

import "time"

// ModelUsage is the per-model row of a StatsCache.
type ModelUsage struct {
	Model  string      `json:"model"`
	Tokens TokenCounts `json:"tokens"`
	Cost   float64     `json:"cost"`
}

// StatsCache is the locally re-validated view of the assistant's own stats
// snapshot file. Cost fields are always the product of local
// recomputation (internal/pricing), never taken verbatim from the snapshot.
type StatsCache struct {
	TotalTokens TokenCounts
	TotalCost   float64
	ByModel     map[string]*ModelUsage
	HourlyCount [24]int64
	LoadedAt    time.Time
}

// Clone returns an independent copy so that callers holding a StatsCache
// handle never observe a later in-place mutation.
func (s *StatsCache) Clone() *StatsCache {
	if s == nil {
		return nil
	}
	cp := *s
	cp.ByModel = make(map[string]*ModelUsage, len(s.ByModel))
	for k, v := range s.ByModel {
		vv := *v
		cp.ByModel[k] = &vv
	}
	return &cp
}

// BillingBlock is one 5-hour UTC accounting window.
type BillingBlock struct {
	Start        time.Time
	Tokens       TokenCounts
	SessionCount int
	Cost         float64
}

// InvocationStats holds agent/command/skill usage counts aggregated across
// all loaded sessions.
type InvocationStats struct {
	Agents   map[string]int64
	Commands map[string]int64
	Skills   map[string]int64
}

// NewInvocationStats returns an InvocationStats with initialized maps.
func NewInvocationStats() InvocationStats {
	return InvocationStats{
		Agents:   map[string]int64{},
		Commands: map[string]int64{},
		Skills:   map[string]int64{},
	}
}

// AlertLevel classifies a QuotaStatus's usage against the budget
// thresholds: Safe below 60%, Warning at 60-80%, Critical from 80% up to
// the configured alert threshold, Exceeded at or above it. A threshold
// outside (80%, 100%) is ignored and 100% is used instead.
type AlertLevel int

const (
	AlertSafe AlertLevel = iota
	AlertWarning
	AlertCritical
	AlertExceeded
)

func (a AlertLevel) String() string {
	switch a {
	case AlertSafe:
		return "safe"
	case AlertWarning:
		return "warning"
	case AlertCritical:
		return "critical"
	case AlertExceeded:
		return "exceeded"
	default:
		return "unknown"
	}
}

// QuotaStatus is the derived monthly-budget aggregate shown to the UI.
type QuotaStatus struct {
	MonthToDateTokens    TokenCounts
	MonthToDateCost      float64
	UsagePercent         float64
	MonthlyProjectionCost float64
	AlertLevel           AlertLevel
	DaysElapsed          int
	DaysInMonth          int
}
