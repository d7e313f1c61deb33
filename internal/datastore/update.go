package datastore

import (
	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/parsers"
	"github.com/ccboard/ccboard/internal/pricing"
)

// UpdateSession re-parses a session file, replacing its handle in the map,
// re-inserting it into the metadata cache, and dropping any cached full
// content for it. A path not yet in the map is stored the same way;
// AddSession repeats this logic but publishes SessionCreated instead.
func (s *Store) UpdateSession(path string) {
	meta, loadErrs, ok := s.loadOneSession(path)
	for _, le := range loadErrs {
		s.logLoadError(le)
	}
	if !ok {
		return
	}

	s.storeSession(meta)
	s.contentCache.Invalidate(meta.ID)
	s.invalidateAnalytics()
	s.publish(models.Event{Kind: models.EventSessionUpdated, SessionID: meta.ID})
}

// AddSession handles a newly created session file the same way as
// UpdateSession, but publishes SessionCreated instead.
func (s *Store) AddSession(path string) {
	meta, loadErrs, ok := s.loadOneSession(path)
	for _, le := range loadErrs {
		s.logLoadError(le)
	}
	if !ok {
		return
	}
	s.storeSession(meta)
	s.invalidateAnalytics()
	s.publish(models.Event{Kind: models.EventSessionCreated, SessionID: meta.ID})
}

// RemoveSession evicts a session whose source file disappeared: from the
// in-memory map, the metadata cache, the billing manager, and the content
// cache.
func (s *Store) RemoveSession(id models.SessionID) {
	s.sessions.Delete(id)

	s.mu.Lock()
	delete(s.invocations, id)
	s.mu.Unlock()

	if s.cache != nil {
		if err := s.cache.Invalidate(id); err != nil {
			s.logLoadError(models.LoadError{Kind: models.ErrTransient, Context: err.Error()})
		}
	}
	s.contentCache.Invalidate(id)
	s.billing.RemoveSession(id)
	s.invalidateAnalytics()
	s.publish(models.Event{Kind: models.EventSessionRemoved, SessionID: id})
}

// ReloadStats re-reads the assistant's stats snapshot file.
func (s *Store) ReloadStats() {
	stats, err := parsers.ParseStats(s.statsPath())
	s.mu.Lock()
	if err == nil {
		recalculated := pricing.Recalculate(stats)
		s.stats = &recalculated
		s.degraded.StatsUnavailable = false
	} else {
		s.degraded.StatsUnavailable = true
	}
	s.mu.Unlock()
	s.publish(models.Event{Kind: models.EventStatsUpdated})
}

// ReloadSettings re-merges the three settings layers.
func (s *Store) ReloadSettings() {
	globalPath, projectPath, localPath := s.settingsPaths()
	merged, errs := parsers.ParseSettings(globalPath, projectPath, localPath)
	for _, le := range errs {
		s.logLoadError(le)
	}
	s.mu.Lock()
	s.settings = merged
	s.degraded.SettingsUnavailable = len(merged.Values) == 0
	s.mu.Unlock()
	s.publish(models.Event{Kind: models.EventConfigChanged})
}

// ReloadMcp re-reads the MCP server configuration file.
func (s *Store) ReloadMcp() {
	mcp, err := parsers.ParseMcpConfig(s.mcpPath())
	s.mu.Lock()
	if err == nil {
		s.mcp = mcp
	}
	s.mu.Unlock()
	s.publish(models.Event{Kind: models.EventMcpChanged})
}

// ReloadHooks rescans the hooks directory.
func (s *Store) ReloadHooks() {
	hooks, err := parsers.ScanHooks(s.hooksDir())
	if err != nil {
		s.logLoadError(models.LoadError{Kind: models.ErrTransient, Path: s.hooksDir(), Context: err.Error()})
		return
	}
	s.mu.Lock()
	s.hooks = hooks
	s.mu.Unlock()
}

// ReloadFrontmatter rescans agents, commands, and skills.
func (s *Store) ReloadFrontmatter() {
	agents, agentErrs := parsers.ScanFrontmatterDir(s.agentsDir())
	commands, commandErrs := parsers.ScanFrontmatterDir(s.commandsDir())
	skills, skillErrs := parsers.ScanSkills(s.skillsDir())
	for _, le := range append(append(agentErrs, commandErrs...), skillErrs...) {
		s.logLoadError(le)
	}
	s.mu.Lock()
	s.agents = agents
	s.commands = commands
	s.skills = skills
	s.mu.Unlock()
}

// recordInvocations stores a session's extracted agent/command/skill usage,
// replacing any earlier record for the same session so a re-parse never
// double counts; InvocationStats sums the per-session records on read.
func (s *Store) recordInvocations(id models.SessionID, stats models.InvocationStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invocations[id] = stats
}
