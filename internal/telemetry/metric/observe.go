package metric

import "time"

// Result labels.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// The helpers below are nil-safe so components can run without metrics.

// ObserveStorage records one store operation.
func (r *Registry) ObserveStorage(backend, op, result string) {
	if r == nil {
		return
	}
	r.StorageOps.WithLabelValues(backend, op, result).Inc()
}

// ObserveSessionLoad records the status a session load resolved to.
func (r *Registry) ObserveSessionLoad(status string) {
	if r == nil {
		return
	}
	r.SessionLoads.WithLabelValues(status).Inc()
}

// ObserveRouteWrite records a last-route write.
func (r *Registry) ObserveRouteWrite(err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.RouteWrites.WithLabelValues(ResultError).Inc()
		return
	}
	r.RouteWrites.WithLabelValues(ResultOK).Inc()
}

// ObserveRouteUndetermined records a notification without a route name.
func (r *Registry) ObserveRouteUndetermined() {
	if r == nil {
		return
	}
	r.RouteSkipped.Inc()
}

// ObservePlan records a plan request outcome and its latency.
func (r *Registry) ObservePlan(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.PlanRequests.WithLabelValues(outcome).Inc()
	r.PlanDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one shell bridge request.
func (r *Registry) ObserveHTTP(method, path, status string) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, path, status).Inc()
}
