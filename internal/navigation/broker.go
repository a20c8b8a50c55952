package navigation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is a navigation state change.
type Event struct {
	State  *State
	Source string // "http", "stdin", ...
	At     time.Time
}

// NewEvent builds an event for a single active route.
func NewEvent(routeName, source string) Event {
	return Event{State: Single(routeName), Source: source, At: time.Now()}
}

// RouteName returns the active route name, if determinable.
func (e Event) RouteName() (string, bool) {
	return e.State.ActiveRouteName()
}

// Handler receives events. It runs on the publisher's goroutine.
type Handler func(ctx context.Context, ev Event)

// Broker fans events out to subscribers.
//
// Delivery is serial: Publish calls are ordered and each subscriber sees
// events one at a time, in publish order.
type Broker struct {
	logger *slog.Logger

	pubMu sync.Mutex // orders Publish calls

	mu     sync.Mutex
	subs   map[uint64]*subscription
	nextID uint64
	closed bool
}

type subscription struct {
	mu      sync.Mutex // held for the duration of one delivery
	handler Handler
	active  bool
}

// NewBroker creates a broker.
func NewBroker(logger *slog.Logger) *Broker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		logger: logger,
		subs:   make(map[uint64]*subscription),
	}
}

// Subscribe registers h and returns the function that releases it.
//
// The release function is idempotent. Once it returns, h is not running
// and will not be called again. It must not be called from inside h.
// Subscribing to a closed broker returns an inert release function.
func (b *Broker) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	id := b.nextID
	b.nextID++
	sub := &subscription{handler: h, active: true}
	b.subs[id] = sub

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()

			// Waits for an in-flight delivery to finish.
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()
		})
	}
}

// Publish delivers ev to every current subscriber and returns how many
// received it. A panicking handler is logged and does not stop delivery.
func (b *Broker) Publish(ctx context.Context, ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}
	targets := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		targets = append(targets, s)
	}
	b.mu.Unlock()

	delivered := 0
	for _, s := range targets {
		if b.deliver(ctx, s, ev) {
			delivered++
		}
	}
	return delivered
}

func (b *Broker) deliver(ctx context.Context, s *subscription, ev Event) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("navigation handler panicked", "panic", r, "source", ev.Source)
			ok = false
		}
	}()
	s.handler(ctx, ev)
	return true
}

// Subscribers returns the number of active subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close drops all subscriptions. Later Publish calls deliver nothing.
func (b *Broker) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*subscription)
	b.closed = true
	b.mu.Unlock()

	for _, s := range subs {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
	}
}
