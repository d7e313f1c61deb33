package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/gorilla/mux"
)

// liveWindow bounds how recently a session must have been touched to be
// reported by /api/sessions/live. There is no real process table to
// consult - ASSISTANT_HOME carries no PID or lock file - so "live" is
// approximated from write recency, the same signal the file watcher
// itself reacts to.
const liveWindow = 2 * time.Minute

func (a *Api) getStats(rw http.ResponseWriter, r *http.Request) {
	stats := a.store.Stats()
	if stats == nil {
		handleError(rw, errNoStats, http.StatusNotFound)
		return
	}
	writeJSON(rw, stats)
}

func (a *Api) getSessions(rw http.ResponseWriter, r *http.Request) {
	byProject := a.store.SessionsByProject()
	if project := r.URL.Query().Get("project"); project != "" {
		writeJSON(rw, byProject[project])
		return
	}
	writeJSON(rw, byProject)
}

func (a *Api) getRecentSessions(rw http.ResponseWriter, r *http.Request) {
	n := 20
	if raw := r.URL.Query().Get("n"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			n = parsed
		}
	}
	writeJSON(rw, a.store.RecentSessions(n))
}

func (a *Api) getLiveSessions(rw http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().Add(-liveWindow)
	all := a.store.RecentSessions(0)
	live := make([]*models.SessionMetadata, 0, len(all))
	for _, m := range all {
		if m.LastTimestamp != nil && m.LastTimestamp.After(cutoff) {
			live = append(live, m)
		}
	}
	writeJSON(rw, live)
}

func (a *Api) getSessionByID(rw http.ResponseWriter, r *http.Request) {
	id := models.SessionID(mux.Vars(r)["id"])
	meta, ok := a.store.Session(id)
	if !ok {
		handleError(rw, errSessionNotFound(id), http.StatusNotFound)
		return
	}
	if r.URL.Query().Get("content") == "1" {
		content, err := a.store.LoadSessionContent(id)
		if err != nil {
			handleError(rw, err, http.StatusInternalServerError)
			return
		}
		writeJSON(rw, struct {
			Metadata *models.SessionMetadata `json:"metadata"`
			Content  models.SessionContent   `json:"content"`
		}{meta, content})
		return
	}
	writeJSON(rw, meta)
}

func (a *Api) getMergedConfig(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, a.store.Settings())
}

func (a *Api) getHooks(rw http.ResponseWriter, r *http.Request) {
	hooks := a.store.Hooks()
	sort.Slice(hooks, func(i, j int) bool { return hooks[i].Name < hooks[j].Name })
	writeJSON(rw, hooks)
}

func (a *Api) getMcp(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, maskMcpConfig(a.store.McpConfig()))
}

func (a *Api) getAgents(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, a.store.Agents())
}

func (a *Api) getCommands(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, a.store.Commands())
}

func (a *Api) getSkills(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, a.store.Skills())
}

func (a *Api) getQuota(rw http.ResponseWriter, r *http.Request) {
	status, ok := a.store.QuotaStatus(time.Now())
	if !ok {
		handleError(rw, errNoBudget, http.StatusNotFound)
		return
	}
	writeJSON(rw, status)
}

func (a *Api) getAnalytics(rw http.ResponseWriter, r *http.Request) {
	period := models.AllLoaded()
	if raw := r.URL.Query().Get("days"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			period = models.LastNDays(n)
		}
	}
	writeJSON(rw, a.store.Analytics(period, time.Now()))
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	UptimeSeconds float64              `json:"uptime_seconds"`
	Degraded      models.DegradedState `json:"degraded"`
	LastLoad      models.LoadReport    `json:"last_load"`
	Subscribers   int                  `json:"event_subscribers"`
	CacheHits     uint64               `json:"cache_hits"`
	CacheMisses   uint64               `json:"cache_misses"`
}

func (a *Api) getHealth(rw http.ResponseWriter, r *http.Request) {
	cacheStats := a.store.CacheStats()
	writeJSON(rw, HealthResponse{
		UptimeSeconds: time.Since(a.startedAt).Seconds(),
		Degraded:      a.store.DegradedState(),
		LastLoad:      a.store.LoadReport(),
		Subscribers:   a.store.Bus().SubscriberCount(),
		CacheHits:     cacheStats.Hits,
		CacheMisses:   cacheStats.Misses,
	})
}
