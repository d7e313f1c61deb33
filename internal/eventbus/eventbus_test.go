package eventbus

import (
	"testing"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	b := New()
	s1 := b.Subscribe()
	s2 := b.Subscribe()

	b.Publish(models.Event{Kind: models.EventSessionCreated, SessionID: "s1"})

	ev1 := <-s1.C
	ev2 := <-s2.C
	assert.Equal(t, models.EventSessionCreated, ev1.Kind)
	assert.Equal(t, models.EventSessionCreated, ev2.Kind)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()
	s := b.Subscribe()
	b.Unsubscribe(s.ID)

	assert.Equal(t, 0, b.SubscriberCount())

	_, ok := <-s.C
	assert.False(t, ok, "channel should be closed after Unsubscribe")
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := New()
	s := b.Subscribe()
	b.Unsubscribe(s.ID)
	require.NotPanics(t, func() { b.Unsubscribe(s.ID) })
}

func TestSlowSubscriberLagsInsteadOfBlocking(t *testing.T) {
	b := New()
	s := b.Subscribe()

	for i := 0; i < queueCapacity+10; i++ {
		b.Publish(models.Event{Kind: models.EventStatsUpdated})
	}

	assert.Equal(t, uint64(10), s.Lagged(), "10 events should have been dropped once the 256-cap queue filled")
	assert.Equal(t, queueCapacity, len(s.C), "the queue itself should be full, not overrun")
}

func TestPublishWithNoSubscribersIsSafe(t *testing.T) {
	b := New()
	assert.NotPanics(t, func() { b.Publish(models.Event{Kind: models.EventWatcherError}) })
}
