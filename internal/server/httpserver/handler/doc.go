// Package handler provides the HTTP handlers of the FitPlan shell bridge.
//
// Handlers expose the tab configuration, the cached session, the last
// visited route, navigation notifications and plan generation to a local
// app shell. Every JSON response uses the Response envelope.
package handler
