package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/navigation"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// LastRoute is the result of reading the persisted route marker.
type LastRoute struct {
	Name  string `json:"name,omitempty"`
	Found bool   `json:"found"`
	Err   error  `json:"-"`
}

// RouteService reads and tracks the last visited route (domain.KeyLastPage).
type RouteService struct {
	store   storage.Store
	broker  *navigation.Broker
	logger  *slog.Logger
	metrics *metric.Registry
}

// NewRouteService creates a RouteService. metrics may be nil.
func NewRouteService(store storage.Store, broker *navigation.Broker, logger *slog.Logger, metrics *metric.Registry) *RouteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteService{
		store:   store,
		broker:  broker,
		logger:  logger.With("component", "route"),
		metrics: metrics,
	}
}

// Last reads the persisted route once. An absent marker is not an error.
func (s *RouteService) Last(ctx context.Context) LastRoute {
	name, err := s.store.Get(ctx, domain.KeyLastPage)
	switch {
	case err == nil:
		return LastRoute{Name: name, Found: true}
	case errors.Is(err, storage.ErrKeyNotFound):
		return LastRoute{}
	default:
		s.logger.Warn("last route read failed", "error", err)
		return LastRoute{Err: domain.ErrStorage.WithCause(err)}
	}
}

// OpenLast starts the one-shot last-route read.
func (s *RouteService) OpenLast(ctx context.Context) *LastRouteReader {
	return &LastRouteReader{f: goFuture(ctx, s.Last)}
}

// Tracker returns a new, inactive tracker bound to the service's broker.
func (s *RouteService) Tracker() *RouteTracker {
	return NewRouteTracker(s.broker, s.store, s.logger, s.metrics)
}

// LastRouteReader is the handle of one activation's last-route read.
type LastRouteReader struct {
	f *future[LastRoute]
}

// Done is closed when the read has completed.
func (r *LastRouteReader) Done() <-chan struct{} {
	return r.f.Done()
}

// Wait blocks until the read completes or ctx ends.
func (r *LastRouteReader) Wait(ctx context.Context) (LastRoute, error) {
	return r.f.Wait(ctx)
}

// Release cancels the read if it is still running.
func (r *LastRouteReader) Release() {
	r.f.release()
}

// ============================================================================
// RouteTracker
// ============================================================================

// RouteTracker persists the active route on every navigation change.
//
// The subscription is a scoped resource: Start acquires it and Stop
// releases it. Once Stop returns, no further writes happen even if more
// notifications are published.
type RouteTracker struct {
	broker  *navigation.Broker
	store   storage.Store
	logger  *slog.Logger
	metrics *metric.Registry

	// mu is held shared by Track for the whole write, so Stop waits
	// for direct writes in flight.
	mu          sync.RWMutex
	active      atomic.Bool
	unsubscribe func()

	writes  atomic.Uint64
	skipped atomic.Uint64
}

// NewRouteTracker creates an inactive tracker.
func NewRouteTracker(broker *navigation.Broker, store storage.Store, logger *slog.Logger, metrics *metric.Registry) *RouteTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RouteTracker{
		broker:  broker,
		store:   store,
		logger:  logger,
		metrics: metrics,
	}
}

// Start subscribes to the broker. Starting an active tracker is a no-op.
func (t *RouteTracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unsubscribe != nil {
		return
	}
	t.active.Store(true)
	t.unsubscribe = t.broker.Subscribe(t.handle)
	t.logger.Debug("route tracker started")
}

// Stop releases the subscription. It is idempotent and cannot fail.
// It must not be called from inside a navigation handler.
func (t *RouteTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.unsubscribe == nil {
		return
	}
	t.active.Store(false)
	t.unsubscribe()
	t.unsubscribe = nil
	t.logger.Debug("route tracker stopped", "writes", t.writes.Load())
}

// Scope runs fn with the tracker active. The subscription is released
// when fn returns or panics.
func (t *RouteTracker) Scope(fn func() error) error {
	t.Start()
	defer t.Stop()
	return fn()
}

// Track persists the route of ev directly, outside the broker.
func (t *RouteTracker) Track(ctx context.Context, ev navigation.Event) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.active.Load() {
		return domain.ErrTrackerReleased
	}
	return t.record(ctx, ev)
}

// Writes returns the number of successful route writes.
func (t *RouteTracker) Writes() uint64 {
	return t.writes.Load()
}

// Skipped returns the number of notifications without a determinable route.
func (t *RouteTracker) Skipped() uint64 {
	return t.skipped.Load()
}

func (t *RouteTracker) handle(ctx context.Context, ev navigation.Event) {
	// Errors are logged in record; notifications have no caller to report to.
	_ = t.record(ctx, ev)
}

func (t *RouteTracker) record(ctx context.Context, ev navigation.Event) error {
	name, ok := ev.RouteName()
	if !ok {
		t.skipped.Add(1)
		t.metrics.ObserveRouteUndetermined()
		t.logger.Debug("navigation event without active route", "source", ev.Source)
		return domain.ErrRouteUndetermined
	}

	err := t.store.Set(ctx, domain.KeyLastPage, name)
	t.metrics.ObserveRouteWrite(err)
	if err != nil {
		t.logger.Warn("route write failed", "route", name, "error", err)
		return domain.ErrStorage.WithCause(err)
	}
	t.writes.Add(1)
	t.logger.Debug("route recorded", "route", name, "source", ev.Source)
	return nil
}
