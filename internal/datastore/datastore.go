// Package datastore holds ccboard's central in-memory state: the
// concurrent session map, the merged configuration, the stats and quota
// snapshots, and the subsystems (metadata cache, content cache, billing,
// analytics) derived from them. Every front-end - TUI, HTTP API, CLI -
// reads through the same Store instance via its read API and observes the
// same EventBus.
package datastore

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/ccboard/ccboard/internal/billing"
	"github.com/ccboard/ccboard/internal/contentcache"
	"github.com/ccboard/ccboard/internal/eventbus"
	"github.com/ccboard/ccboard/internal/metadatacache"
	"github.com/ccboard/ccboard/internal/models"
	"github.com/ccboard/ccboard/internal/watcher"
	"github.com/ccboard/ccboard/pkg/log"
	"github.com/go-co-op/gocron/v2"
)

// fanoutWorkers bounds how many session files are parsed concurrently
// during initial_load, across all projects together.
const fanoutWorkers = 8

// Options configures a new Store.
type Options struct {
	// AssistantHome is the root directory holding global state.
	AssistantHome string
	// ProjectPath, if set, additionally layers in a single project's
	// settings.json/settings.local.json on top of the global ones.
	ProjectPath string
	// CachePath is the sqlite metadata cache location. Empty disables
	// the persistent cache (every load is a cold parse); tests pass
	// ":memory:" and the short-lived CLI path passes config.CachePath().
	CachePath string
	// Watch enables the file-watcher pipeline. The short-lived CLI path
	// leaves this false.
	Watch bool
}

// Store is ccboard's central state holder. All exported methods are safe
// for concurrent use. sessions is the one genuinely hot-contention table -
// every file-watcher tick replaces one entry while readers (the TUI render
// loop, the HTTP API) walk the whole set - so it lives in its own sync.Map,
// giving a reader and a concurrent replacement at most per-key contention
// instead of blocking every other subsystem behind one lock. mu guards the
// remaining, much colder snapshot fields below it; the cache, content
// cache, and bus each have their own internal synchronization.
type Store struct {
	opts Options

	sessions sync.Map // models.SessionID -> *models.SessionMetadata

	mu          sync.RWMutex
	invocations map[models.SessionID]models.InvocationStats
	stats       *models.StatsCache
	settings    models.MergedConfig
	mcp         models.McpConfig
	hooks       []models.Hook
	agents      []models.FrontmatterDoc
	commands    []models.FrontmatterDoc
	skills      []models.FrontmatterDoc
	degraded    models.DegradedState
	lastReport  models.LoadReport

	analyticsMu    sync.Mutex
	analyticsCache map[string]models.AnalyticsData

	cache        *metadatacache.Cache
	contentCache *contentcache.Cache
	billing      *billing.Manager
	bus          *eventbus.Bus

	watch     *watcher.Watcher
	cmdCh     chan watcher.Command
	errCh     chan models.LoadError
	watchDone chan struct{}

	scheduler gocron.Scheduler
}

// New constructs a Store. It does not load anything; call InitialLoad
// before serving reads. Opening the metadata cache is the one step that
// can fail fatally - everything past this point degrades gracefully
// instead of returning an error.
func New(opts Options) (*Store, error) {
	if opts.AssistantHome == "" {
		return nil, fmt.Errorf("datastore: AssistantHome must be set")
	}

	var cache *metadatacache.Cache
	if opts.CachePath != "" {
		c, err := metadatacache.Open(opts.CachePath)
		if err != nil {
			return nil, fmt.Errorf("datastore: open metadata cache: %w", err)
		}
		cache = c
	}

	s := &Store{
		opts:           opts,
		invocations:    map[models.SessionID]models.InvocationStats{},
		settings:       models.MergedConfig{Values: map[string]any{}, Provenance: map[string]models.ConfigLayer{}},
		analyticsCache: map[string]models.AnalyticsData{},
		cache:          cache,
		contentCache:   contentcache.New(),
		billing:        billing.NewManager(),
		bus:            eventbus.New(),
	}
	return s, nil
}

// Close releases the metadata cache handle and stops the file watcher, if
// running.
func (s *Store) Close() error {
	if s.watch != nil {
		s.watch.Close()
		close(s.watchDone)
	}
	if err := s.StopBackgroundTasks(); err != nil {
		log.Warnf("datastore: scheduler shutdown: %v", err)
	}
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

// Bus returns the EventBus so front-ends can subscribe without the Store
// needing per-front-end plumbing.
func (s *Store) Bus() *eventbus.Bus { return s.bus }

func (s *Store) settingsPaths() (global, project, local string) {
	global = filepath.Join(s.opts.AssistantHome, "settings.json")
	if s.opts.ProjectPath != "" {
		project = filepath.Join(s.opts.ProjectPath, "settings.json")
		local = filepath.Join(s.opts.ProjectPath, "settings.local.json")
	}
	return
}

func (s *Store) statsPath() string {
	return filepath.Join(s.opts.AssistantHome, "stats-cache.json")
}

func (s *Store) mcpPath() string {
	return filepath.Join(s.opts.AssistantHome, "claude_desktop_config.json")
}

func (s *Store) projectsRoot() string {
	return filepath.Join(s.opts.AssistantHome, "projects")
}

func (s *Store) hooksDir() string {
	return filepath.Join(s.opts.AssistantHome, "hooks", "bash")
}

func (s *Store) agentsDir() string {
	return filepath.Join(s.opts.AssistantHome, "agents")
}

func (s *Store) commandsDir() string {
	return filepath.Join(s.opts.AssistantHome, "commands")
}

func (s *Store) skillsDir() string {
	return filepath.Join(s.opts.AssistantHome, "skills")
}

func (s *Store) invalidateAnalytics() {
	s.analyticsMu.Lock()
	s.analyticsCache = map[string]models.AnalyticsData{}
	s.analyticsMu.Unlock()
}

func (s *Store) publish(ev models.Event) {
	s.bus.Publish(ev)
}

func (s *Store) logLoadError(le models.LoadError) {
	log.Warnf("datastore: %v", le)
}
