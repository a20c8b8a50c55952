// Package service provides the FitPlan domain services.
//
// SessionService reads and writes the signed-in user record. RouteService
// reads the last visited route and builds RouteTrackers that persist
// navigation changes. PlanService turns a free-text goal into a workout
// plan through a completion client.
//
// Every service works against storage.Store and is safe for concurrent use.
package service
