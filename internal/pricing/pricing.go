// Package pricing is the sole authority for cost figures in ccboard. Any
// cost value taken verbatim from the assistant's own stats snapshot is
// discarded; Recalculate derives cost purely from token counts and this
// package's static price table.
package pricing

import "github.com/ccboard/ccboard/internal/models"

// rate holds per-million-token prices in USD for one model.
type rate struct {
	input  float64
	output float64
}

// cacheWriteMultiplier and cacheReadMultiplier scale the input rate for
// cache-creation and cache-read tokens respectively, matching the
// assistant's own published pricing: writing to the prompt cache costs
// more than a fresh input token, reading from it costs much less.
const (
	cacheWriteMultiplier = 1.25
	cacheReadMultiplier  = 0.10
)

// table holds per-million-token USD rates for known model ID prefixes.
// Prefix matching (rather than exact match) tolerates dated model
// revisions like "claude-3-5-sonnet-20241022" sharing one entry.
var table = []struct {
	prefix string
	rate   rate
}{
	{"claude-opus-4", rate{input: 15.00, output: 75.00}},
	{"claude-sonnet-4", rate{input: 3.00, output: 15.00}},
	{"claude-3-7-sonnet", rate{input: 3.00, output: 15.00}},
	{"claude-3-5-sonnet", rate{input: 3.00, output: 15.00}},
	{"claude-3-5-haiku", rate{input: 0.80, output: 4.00}},
	{"claude-3-opus", rate{input: 15.00, output: 75.00}},
	{"claude-3-haiku", rate{input: 0.25, output: 1.25}},
}

// defaultRate is used for a model id that matches no known prefix, so an
// unrecognized or future model still contributes a plausible estimate
// instead of a silent zero.
var defaultRate = rate{input: 3.00, output: 15.00}

func rateFor(model string) rate {
	for _, entry := range table {
		if len(model) >= len(entry.prefix) && model[:len(entry.prefix)] == entry.prefix {
			return entry.rate
		}
	}
	return defaultRate
}

// costFor computes the USD cost of one model's token counts.
func costFor(model string, tokens models.TokenCounts) float64 {
	r := rateFor(model)
	const perMillion = 1_000_000.0
	cost := float64(tokens.Input) / perMillion * r.input
	cost += float64(tokens.Output) / perMillion * r.output
	cost += float64(tokens.CacheWrite) / perMillion * r.input * cacheWriteMultiplier
	cost += float64(tokens.CacheRead) / perMillion * r.input * cacheReadMultiplier
	return cost
}

// Recalculate rebuilds cache's cost fields from its own token counts. It
// is idempotent: calling it twice on the same StatsCache produces the same
// ByModel costs and TotalCost, since cost is always derived, never
// accumulated in place.
func Recalculate(cache models.StatsCache) models.StatsCache {
	out := cache.Clone()
	if out == nil {
		out = &models.StatsCache{ByModel: map[string]*models.ModelUsage{}}
	}

	var total float64
	for model, usage := range out.ByModel {
		usage.Cost = costFor(model, usage.Tokens)
		total += usage.Cost
	}
	out.TotalCost = total
	return *out
}

// CostForTokens exposes costFor for callers (e.g. internal/billing) that
// need a cost estimate for a token slice that is not part of a full
// StatsCache, such as one billing block's contribution.
func CostForTokens(model string, tokens models.TokenCounts) float64 {
	return costFor(model, tokens)
}
