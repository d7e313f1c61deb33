// Package eventbus is ccboard's in-process publish/subscribe layer. The
// DataStore publishes an Event after every state change; the TUI and the
// browser UI's SSE endpoint each hold their own subscription and never
// touch DataStore internals directly.
package eventbus

import (
	"sync"
	"sync/atomic"

	"github.com/ccboard/ccboard/internal/models"
	"github.com/google/uuid"
)

// queueCapacity is the fixed size of each subscriber's buffered channel.
// A consumer that falls behind this far starts losing events rather than
// blocking the publisher - see Subscription.Lagged.
const queueCapacity = 256

// Subscription is a single consumer's view of the bus. Events arrives on
// C; the subscriber never closes C itself, it calls Bus.Unsubscribe.
type Subscription struct {
	ID uuid.UUID
	C  <-chan models.Event

	lagged atomic.Uint64
}

// Lagged returns the number of events dropped for this subscriber because
// its queue was full. A nonzero value means the consumer is not draining
// fast enough and should treat its view as potentially stale until it next
// does a full resync (e.g. GET /api/sessions).
func (s *Subscription) Lagged() uint64 {
	return s.lagged.Load()
}

type subscriber struct {
	id  uuid.UUID
	ch  chan models.Event
	sub *Subscription
}

// Bus is a multi-producer, multi-consumer event broadcaster. The zero
// value is not usable; construct with New.
type Bus struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*subscriber
}

// New returns an empty Bus ready to accept subscribers and publishes.
func New() *Bus {
	return &Bus{subs: map[uuid.UUID]*subscriber{}}
}

// Subscribe registers a new consumer and returns its Subscription. Callers
// must eventually call Unsubscribe to release the channel.
func (b *Bus) Subscribe() *Subscription {
	id := uuid.New()
	ch := make(chan models.Event, queueCapacity)
	sub := &Subscription{ID: id, C: ch}
	s := &subscriber{id: id, ch: ch, sub: sub}

	b.mu.Lock()
	b.subs[id] = s
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Safe to call
// more than once for the same id.
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	s, ok := b.subs[id]
	if ok {
		delete(b.subs, id)
	}
	b.mu.Unlock()
	if ok {
		close(s.ch)
	}
}

// Publish fans ev out to every current subscriber. Delivery is
// non-blocking: a subscriber whose queue is full has the event dropped and
// its Lagged counter incremented instead of stalling the publisher, so one
// slow consumer (e.g. a browser tab backgrounded by the OS) can never
// block session updates for everyone else.
func (b *Bus) Publish(ev models.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		default:
			s.sub.lagged.Add(1)
		}
	}
}

// SubscriberCount reports how many consumers are currently registered,
// used by diagnostics and tests.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
