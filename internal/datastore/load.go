package datastore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/parsers"
	"github.com/ccboard/ccboard/internal/pricing"
	"golang.org/x/sync/errgroup"
)

// InitialLoad populates the store from disk: stats, settings, mcp config,
// hooks/agents/commands/skills, and every project's sessions. It always
// returns a LoadReport, never an error - individual source failures are
// recorded in the report and DegradedState rather than aborting the load.
func (s *Store) InitialLoad() models.LoadReport {
	report := models.LoadReport{}
	degraded := models.DegradedState{}

	if stats, err := parsers.ParseStats(s.statsPath()); err == nil {
		recalculated := pricing.Recalculate(stats)
		s.mu.Lock()
		s.stats = &recalculated
		s.mu.Unlock()
		report.StatsLoaded = true
	} else {
		degraded.StatsUnavailable = true
	}

	globalPath, projectPath, localPath := s.settingsPaths()
	merged, errs := parsers.ParseSettings(globalPath, projectPath, localPath)
	report.Errors = append(report.Errors, errs...)
	s.mu.Lock()
	s.settings = merged
	s.mu.Unlock()
	report.SettingsLoaded = len(merged.Values) > 0
	degraded.SettingsUnavailable = !report.SettingsLoaded

	if mcp, err := parsers.ParseMcpConfig(s.mcpPath()); err == nil {
		s.mu.Lock()
		s.mcp = mcp
		s.mu.Unlock()
		report.McpLoaded = len(mcp.Servers) > 0
	} else {
		degraded.McpUnavailable = true
		report.Errors = append(report.Errors, models.LoadError{Kind: models.ErrMalformed, Path: s.mcpPath(), Context: err.Error()})
	}

	if hooks, err := parsers.ScanHooks(s.hooksDir()); err == nil {
		s.mu.Lock()
		s.hooks = hooks
		s.mu.Unlock()
	}

	agents, agentErrs := parsers.ScanFrontmatterDir(s.agentsDir())
	commands, commandErrs := parsers.ScanFrontmatterDir(s.commandsDir())
	skills, skillErrs := parsers.ScanSkills(s.skillsDir())
	s.mu.Lock()
	s.agents = agents
	s.commands = commands
	s.skills = skills
	s.mu.Unlock()
	report.Errors = append(report.Errors, agentErrs...)
	report.Errors = append(report.Errors, commandErrs...)
	report.Errors = append(report.Errors, skillErrs...)

	scanned, failed, sessErrs := s.loadAllSessions()
	report.SessionsScanned = scanned
	report.SessionsFailed = failed
	report.Errors = append(report.Errors, sessErrs...)
	degraded.PartialSessionLoad = failed > 0

	s.mu.Lock()
	s.degraded = degraded
	s.lastReport = report
	s.mu.Unlock()

	s.publish(models.Event{Kind: models.EventLoadCompleted})
	return report
}

// loadAllSessions enumerates every project directory under ASSISTANT_HOME
// and parses its session files, up to fanoutWorkers at a time, consulting
// the metadata cache before falling back to a full parse.
func (s *Store) loadAllSessions() (scanned, failed int, errs []models.LoadError) {
	projects, err := os.ReadDir(s.projectsRoot())
	if err != nil {
		return 0, 0, nil
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(fanoutWorkers)

	for _, p := range projects {
		if !p.IsDir() {
			continue
		}
		projectDir := filepath.Join(s.projectsRoot(), p.Name())
		files, err := os.ReadDir(projectDir)
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
				continue
			}
			path := filepath.Join(projectDir, f.Name())
			g.Go(func() error {
				meta, loadErrs, ok := s.loadOneSession(path)
				mu.Lock()
				defer mu.Unlock()
				if !ok {
					failed++
					errs = append(errs, loadErrs...)
					return nil
				}
				scanned++
				errs = append(errs, loadErrs...)
				s.storeSession(meta)
				return nil
			})
		}
	}
	_ = g.Wait()
	return scanned, failed, errs
}

// loadOneSession consults the metadata cache by (id, mtime) before
// running the SessionIndex parser, and writes a fresh cache entry on a
// miss.
func (s *Store) loadOneSession(path string) (models.SessionMetadata, []models.LoadError, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return models.SessionMetadata{}, []models.LoadError{{Kind: models.ErrMissing, Path: path, Context: err.Error()}}, false
	}
	mtime := info.ModTime().UnixNano()
	id := models.SessionID(strings.TrimSuffix(filepath.Base(path), ".jsonl"))

	if s.cache != nil {
		if meta, hit, err := s.cache.Lookup(id, mtime); err == nil && hit {
			return meta, nil, true
		}
	}

	result, err := parsers.ParseSessionIndex(path, mtime)
	if err != nil {
		if le, ok := err.(models.LoadError); ok {
			return models.SessionMetadata{}, []models.LoadError{le}, false
		}
		return models.SessionMetadata{}, []models.LoadError{{Kind: models.ErrMalformed, Path: path, Context: err.Error()}}, false
	}

	if s.cache != nil {
		if err := s.cache.InsertOrReplace(result.Metadata); err != nil {
			s.logLoadError(models.LoadError{Kind: models.ErrTransient, Path: path, Context: err.Error()})
		}
	}
	return result.Metadata, result.Errors, true
}

// storeSession installs meta into the session map and billing manager. It
// does not publish an event: InitialLoad publishes a single LoadCompleted
// for the whole batch instead of one event per session. The sync.Map store
// only ever contends with a concurrent reader or replacement of the same
// key, never with updates to unrelated sessions or the other subsystems.
func (s *Store) storeSession(meta models.SessionMetadata) {
	primaryModel := ""
	if len(meta.Models) > 0 {
		primaryModel = meta.Models[0]
	}
	s.sessions.Store(meta.ID, &meta)
	s.billing.UpdateSession(meta.ID, meta, primaryModel)
}
