// Package metric provides Prometheus metrics for FitPlan.
//
// Metrics include:
//
//   - Storage operation counters by backend, op and result
//   - Session load outcomes
//   - Route marker writes
//   - Plan request counters and latency histogram
//   - HTTP request counters for the shell bridge
//
// Metrics are exposed at /metrics in Prometheus format.
package metric
