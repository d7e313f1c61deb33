package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ccboard/ccboard/pkg/log"
	"golang.org/x/time/rate"
)

// eventStreamRate bounds how many events per second a single SSE
// subscriber is flushed, so a WatcherError storm (rapid repeated OS watch
// errors) degrades to a steady drip instead of saturating the connection.
// The EventBus's own per-subscriber queue (see internal/eventbus) absorbs
// the backlog between ticks; once it's full, the bus itself starts
// dropping and incrementing Lagged instead of blocking here.
const eventStreamRate = 20

// streamEvents serves GET /api/events: an indefinite text/event-stream of
// JSON-encoded Event values, one subscription per connection. The
// subscription is released the moment the client disconnects.
func (a *Api) streamEvents(rw http.ResponseWriter, r *http.Request) {
	flusher, ok := rw.(http.Flusher)
	if !ok {
		handleError(rw, errNoFlush, http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")
	rw.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := a.store.Bus().Subscribe()
	defer a.store.Bus().Unsubscribe(sub.ID)

	limiter := rate.NewLimiter(eventStreamRate, eventStreamRate)
	ctx := r.Context()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, open := <-sub.C:
			if !open {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				log.Warnf("api: marshal event for stream: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(rw, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
