package api

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStreamEventsDeliversPublishedEvent(t *testing.T) {
	a, _ := newTestApi(t)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		a.streamEvents(rec, req)
		close(done)
	}()

	// Give streamEvents a moment to subscribe before publishing.
	deadline := time.After(time.Second)
	for a.store.Bus().SubscriberCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("subscriber never registered")
		case <-time.After(time.Millisecond):
		}
	}

	a.store.Bus().Publish(models.Event{Kind: models.EventStatsUpdated})

	require.Eventually(t, func() bool {
		return strings.Contains(rec.Body.String(), `"Kind":0`)
	}, time.Second, time.Millisecond, "expected event payload in stream body")

	cancel()
	<-done

	scanner := bufio.NewScanner(strings.NewReader(rec.Body.String()))
	foundData := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "data: ") {
			foundData = true
		}
	}
	require.True(t, foundData)
}
