// Package navigation models the navigation state of the FitPlan shell
// and delivers state-change notifications to subscribers.
//
// A Broker is the single notification source for route changes. The
// shell (HTTP bridge or CLI) publishes an Event whenever the active
// screen changes; RouteTracker subscribes and persists the route.
package navigation
