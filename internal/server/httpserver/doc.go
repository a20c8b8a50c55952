// Package httpserver provides the local HTTP bridge between an app shell
// and the FitPlan core.
//
// It uses the standard library net/http server and ServeMux. The router
// composes the handler package with Recover, RequestID, AccessLog,
// RateLimit and CORS middleware.
package httpserver
