// Package metric provides Prometheus metrics for FitPlan.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fitplan"

// Registry holds all application metrics on a private prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// Storage
	StorageOps *prometheus.CounterVec // labels: backend, op, result

	// Session
	SessionLoads *prometheus.CounterVec // labels: status

	// Route
	RouteWrites  *prometheus.CounterVec // labels: result
	RouteSkipped prometheus.Counter

	// Plan
	PlanRequests *prometheus.CounterVec // labels: outcome
	PlanDuration prometheus.Histogram

	// HTTP
	RequestsTotal *prometheus.CounterVec // labels: method, path, status
}

// NewRegistry creates a registry with all FitPlan collectors registered,
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		StorageOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Key-value store operations by backend, operation and result",
		}, []string{"backend", "op", "result"}),

		SessionLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "loads_total",
			Help:      "Session record loads by resulting status",
		}, []string{"status"}),

		RouteWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "writes_total",
			Help:      "Last-route marker writes by result",
		}, []string{"result"}),

		RouteSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "route",
			Name:      "undetermined_total",
			Help:      "Navigation notifications without a determinable route",
		}),

		PlanRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "requests_total",
			Help:      "Plan generation requests by outcome",
		}, []string{"outcome"}),

		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "request_duration_seconds",
			Help:      "Completion round-trip latency",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Shell bridge HTTP requests",
		}, []string{"method", "path", "status"}),
	}

	r.registry.MustRegister(
		r.StorageOps,
		r.SessionLoads,
		r.RouteWrites,
		r.RouteSkipped,
		r.PlanRequests,
		r.PlanDuration,
		r.RequestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Registerer exposes the underlying registry for components that
// register their own collectors (e.g. the Badger store).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for tests and exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
