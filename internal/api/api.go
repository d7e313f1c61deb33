// Package api exposes the DataStore over HTTP: one JSON snapshot endpoint
// per read accessor, plus a text/event-stream endpoint that relays the
// EventBus. Every handler is read-only - there is no endpoint that writes
// back into ASSISTANT_HOME.
package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ccboard/ccboard/internal/datastore"
	"github.com/gorilla/mux"
)

// Api wires a DataStore into a set of HTTP handlers. The zero value is not
// usable; construct with New.
type Api struct {
	store     *datastore.Store
	startedAt time.Time

	metricsDone chan struct{}
}

// New returns an Api backed by store. startedAt is recorded immediately so
// /api/health can report process uptime. A background subscription feeds
// the events_published_total counter exactly once per publish, independent
// of how many /api/events clients are connected.
func New(store *datastore.Store) *Api {
	a := &Api{store: store, startedAt: time.Now(), metricsDone: make(chan struct{})}
	go a.observeEventsForMetrics()
	return a
}

// Close releases the background metrics subscription. Safe to call once;
// an Api that is never closed simply leaks one subscriber slot for the
// life of the process, which is how cmd/ccboard treats it on normal exit.
func (a *Api) Close() {
	close(a.metricsDone)
}

func (a *Api) observeEventsForMetrics() {
	sub := a.store.Bus().Subscribe()
	defer a.store.Bus().Unsubscribe(sub.ID)
	for {
		select {
		case <-a.metricsDone:
			return
		case ev, open := <-sub.C:
			if !open {
				return
			}
			ObserveEvent(ev.Kind)
		}
	}
}

// MountRoutes registers every endpoint under an "/api" subrouter of r.
func (a *Api) MountRoutes(r *mux.Router) {
	r = r.PathPrefix("/api").Subrouter()
	r.StrictSlash(true)

	r.HandleFunc("/stats", a.getStats).Methods(http.MethodGet)
	r.HandleFunc("/sessions", a.getSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/recent", a.getRecentSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/live", a.getLiveSessions).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}", a.getSessionByID).Methods(http.MethodGet)
	r.HandleFunc("/config/merged", a.getMergedConfig).Methods(http.MethodGet)
	r.HandleFunc("/hooks", a.getHooks).Methods(http.MethodGet)
	r.HandleFunc("/mcp", a.getMcp).Methods(http.MethodGet)
	r.HandleFunc("/agents", a.getAgents).Methods(http.MethodGet)
	r.HandleFunc("/commands", a.getCommands).Methods(http.MethodGet)
	r.HandleFunc("/skills", a.getSkills).Methods(http.MethodGet)
	r.HandleFunc("/quota", a.getQuota).Methods(http.MethodGet)
	r.HandleFunc("/analytics", a.getAnalytics).Methods(http.MethodGet)
	r.HandleFunc("/health", a.getHealth).Methods(http.MethodGet)
	r.HandleFunc("/events", a.streamEvents).Methods(http.MethodGet)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func handleError(rw http.ResponseWriter, err error, statusCode int) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	json.NewEncoder(rw).Encode(ErrorResponse{
		Status: http.StatusText(statusCode),
		Error:  err.Error(),
	})
}

func writeJSON(rw http.ResponseWriter, payload any) {
	rw.Header().Set("Content-Type", "application/json")
	bw := bufio.NewWriter(rw)
	defer bw.Flush()
	if err := json.NewEncoder(bw).Encode(payload); err != nil {
		handleError(rw, err, http.StatusInternalServerError)
	}
}
