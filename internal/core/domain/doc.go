// Package domain defines the core domain models for FitPlan.
//
// Domain models are pure value objects without IO dependencies or
// framework coupling. This package contains:
//
//   - SessionRecord / SessionState: the cached signed-in user
//   - Tab: the tab bar configuration exposed to the app shell
//   - PlanResult: the success/failure outcome of a plan request
//   - Errors: domain error codes shared by all layers
//
// Storage keys (KeyUser, KeyLastPage) are defined here so that every
// backend and service agrees on the persisted layout.
package domain
