package datastore

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ccboard/ccboard/internal/analytics"
	"github.com/ccboard/ccboard/internal/billing"
	"github.com/ccboard/ccboard/internal/metadatacache"
	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/parsers"
)

// Stats returns the current StatsCache, or nil if the assistant's stats
// snapshot has never loaded successfully.
func (s *Store) Stats() *models.StatsCache {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats.Clone()
}

// Settings returns a snapshot clone of the merged configuration.
func (s *Store) Settings() models.MergedConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// McpConfig returns the last-loaded MCP server configuration.
func (s *Store) McpConfig() models.McpConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mcp
}

// Hooks returns the last-scanned hook scripts.
func (s *Store) Hooks() []models.Hook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Hook, len(s.hooks))
	copy(out, s.hooks)
	return out
}

// Agents, Commands, and Skills return the last-scanned frontmatter
// documents for each artifact kind.
func (s *Store) Agents() []models.FrontmatterDoc   { return s.frontmatterSnapshot(s.agents) }
func (s *Store) Commands() []models.FrontmatterDoc { return s.frontmatterSnapshot(s.commands) }
func (s *Store) Skills() []models.FrontmatterDoc   { return s.frontmatterSnapshot(s.skills) }

func (s *Store) frontmatterSnapshot(src []models.FrontmatterDoc) []models.FrontmatterDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.FrontmatterDoc, len(src))
	copy(out, src)
	return out
}

// SessionsByProject groups every loaded session by its project identifier.
func (s *Store) SessionsByProject() map[string][]*models.SessionMetadata {
	out := map[string][]*models.SessionMetadata{}
	s.sessions.Range(func(_, v any) bool {
		m := v.(*models.SessionMetadata)
		out[m.Project] = append(out[m.Project], m)
		return true
	})
	for _, list := range out {
		sort.Slice(list, func(i, j int) bool { return sessionSortsBefore(list[i], list[j]) })
	}
	return out
}

// RecentSessions returns the n most recently active sessions across all
// projects, most recent first.
func (s *Store) RecentSessions(n int) []*models.SessionMetadata {
	var all []*models.SessionMetadata
	s.sessions.Range(func(_, v any) bool {
		all = append(all, v.(*models.SessionMetadata))
		return true
	})

	sort.Slice(all, func(i, j int) bool { return sessionSortsBefore(all[j], all[i]) })
	if n > 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

func sessionSortsBefore(a, b *models.SessionMetadata) bool {
	at, bt := int64(0), int64(0)
	if a.LastTimestamp != nil {
		at = a.LastTimestamp.Unix()
	}
	if b.LastTimestamp != nil {
		bt = b.LastTimestamp.Unix()
	}
	return at < bt
}

// Session returns the session with the given id, if loaded.
func (s *Store) Session(id models.SessionID) (*models.SessionMetadata, bool) {
	v, ok := s.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*models.SessionMetadata), true
}

// AmbiguousIDError is returned by ResolveSessionID when a prefix matches
// more than one loaded session.
type AmbiguousIDError struct {
	Prefix  string
	Matches []models.SessionID
}

func (e *AmbiguousIDError) Error() string {
	if len(e.Matches) == 0 {
		return fmt.Sprintf("ambiguous session id prefix %q: shorter than %d characters", e.Prefix, minIDPrefixLen)
	}
	return fmt.Sprintf("ambiguous session id prefix %q matches %d sessions: %v", e.Prefix, len(e.Matches), e.Matches)
}

// minIDPrefixLen is the shortest prefix ResolveSessionID will accept. A
// prefix below this length is treated as ambiguous outright, matching the
// "a prefix shorter than 8 characters returns AmbiguousId" rule, rather
// than being looked up against the session map.
const minIDPrefixLen = 8

// ResolveSessionID finds the loaded session whose id equals prefix exactly
// or, failing that, begins with it. Prefixes shorter than minIDPrefixLen
// are rejected as ambiguous without inspecting the session map, and an
// *AmbiguousIDError is also returned if a longer prefix matches more than
// one session - so that callers (the CLI's id-prefix commands, a future
// /api/sessions/search) can share one resolution rule instead of
// reimplementing prefix matching themselves.
func (s *Store) ResolveSessionID(prefix string) (models.SessionID, error) {
	if len(prefix) < minIDPrefixLen {
		return "", &AmbiguousIDError{Prefix: prefix}
	}

	if _, ok := s.sessions.Load(models.SessionID(prefix)); ok {
		return models.SessionID(prefix), nil
	}

	var matches []models.SessionID
	s.sessions.Range(func(k, _ any) bool {
		id := k.(models.SessionID)
		if strings.HasPrefix(string(id), prefix) {
			matches = append(matches, id)
		}
		return true
	})

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no session matches prefix %q", prefix)
	case 1:
		return matches[0], nil
	default:
		sort.Slice(matches, func(i, j int) bool { return matches[i] < matches[j] })
		return "", &AmbiguousIDError{Prefix: prefix, Matches: matches}
	}
}

// LoadSessionContent returns the full message list for id, populating the
// content cache on a miss and merging extracted invocation counts into the
// running aggregate.
func (s *Store) LoadSessionContent(id models.SessionID) (models.SessionContent, error) {
	if content, ok := s.contentCache.Get(id); ok {
		return content, nil
	}

	meta, ok := s.Session(id)
	if !ok {
		return models.SessionContent{}, models.LoadError{Kind: models.ErrMissing, Context: fmt.Sprintf("unknown session %s", id)}
	}

	content, loadErrs := parsers.ParseSessionContent(id, meta.Path)
	for _, le := range loadErrs {
		s.logLoadError(le)
	}
	s.contentCache.Put(id, content)
	s.recordInvocations(id, parsers.ExtractInvocations(content))
	return content, nil
}

// InvocationStats aggregates agent/command/skill usage across every
// session whose content has been loaded via LoadSessionContent. Sessions
// never opened in this run simply don't contribute - matching the "no full
// message history reconstruction at startup" constraint.
func (s *Store) InvocationStats() models.InvocationStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := models.NewInvocationStats()
	for _, stats := range s.invocations {
		parsers.MergeInvocations(total, stats)
	}
	return total
}

// BillingBlocks returns every tracked 5-hour billing window, most recent
// first.
func (s *Store) BillingBlocks() []models.BillingBlock {
	return s.billing.Blocks()
}

// QuotaStatus derives the current monthly budget status from the loaded
// sessions' billing contributions. Returns false if no budget is
// configured.
func (s *Store) QuotaStatus(now time.Time) (models.QuotaStatus, bool) {
	settings := s.Settings()
	if settings.Budget.MonthlyBudgetUSD <= 0 {
		return models.QuotaStatus{}, false
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var tokens models.TokenCounts
	var cost float64
	for _, block := range s.billing.Blocks() {
		if block.Start.Before(monthStart) {
			continue
		}
		tokens = tokens.Add(block.Tokens)
		cost += block.Cost
	}

	return billing.ComputeQuotaStatus(settings.Budget, tokens, cost, now), true
}

// Analytics computes (or returns the cached) AnalyticsData for period.
// Results are cached until the next session mutation invalidates the
// cache.
func (s *Store) Analytics(period models.Period, now time.Time) models.AnalyticsData {
	key := period.Key()

	s.analyticsMu.Lock()
	if cached, ok := s.analyticsCache[key]; ok {
		s.analyticsMu.Unlock()
		return cached
	}
	s.analyticsMu.Unlock()

	var sessions []models.SessionMetadata
	s.sessions.Range(func(_, v any) bool {
		sessions = append(sessions, *v.(*models.SessionMetadata))
		return true
	})

	data := analytics.Compute(sessions, period, now)

	s.analyticsMu.Lock()
	s.analyticsCache[key] = data
	s.analyticsMu.Unlock()

	return data
}

// CacheStats returns the metadata cache's cumulative hit/miss counters, or
// the zero value if the store was opened without a persistent cache.
func (s *Store) CacheStats() metadatacache.Stats {
	if s.cache == nil {
		return metadatacache.Stats{}
	}
	return s.cache.Stats()
}

// LoadReport returns the report produced by the most recent InitialLoad.
func (s *Store) LoadReport() models.LoadReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

// DegradedState reports which subsystems are currently missing data.
func (s *Store) DegradedState() models.DegradedState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}
