package api

import (
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sessionsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ccboard",
		Name:      "sessions_scanned_total",
		Help:      "Total number of session files successfully scanned across all loads.",
	})
	sessionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ccboard",
		Name:      "sessions_failed_total",
		Help:      "Total number of session files that failed to parse across all loads.",
	})
	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ccboard",
		Name:      "load_duration_seconds",
		Help:      "Wall-clock time taken by InitialLoad and reload operations.",
		Buckets:   prometheus.DefBuckets,
	})
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ccboard",
		Name:      "events_published_total",
		Help:      "EventBus publishes, labeled by event kind.",
	}, []string{"kind"})
)

// ObserveLoad records the duration and outcome of a LoadReport-producing
// call, for the /metrics endpoint's load_duration_seconds histogram and
// the sessions_{scanned,failed}_total counters.
func ObserveLoad(report models.LoadReport, elapsed time.Duration) {
	loadDuration.Observe(elapsed.Seconds())
	sessionsScanned.Add(float64(report.SessionsScanned))
	sessionsFailed.Add(float64(report.SessionsFailed))
}

// ObserveEvent increments the events_published_total counter for an
// EventBus publish of the given kind. Called once per publish by Api's
// background metrics subscription (see observeEventsForMetrics), not per
// connected SSE client.
func ObserveEvent(kind models.EventKind) {
	eventsPublished.WithLabelValues(kind.String()).Inc()
}

// MountMetrics registers the Prometheus scrape endpoint. Kept separate
// from MountRoutes: /metrics is an operator-facing surface, not a
// DataStore snapshot, and some deployments may want it on a different
// router or not at all.
func (a *Api) MountMetrics(r *mux.Router) {
	r.Handle("/metrics", promhttp.Handler())
}
