package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/yndnr/fitplan-go/internal/server/httpserver/handler"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Deps are the services exposed by the handlers.
	Deps handler.Deps

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics counts requests and, when ExposeMetrics is set, is served
	// on GET /metrics. May be nil.
	Metrics       *metric.Registry
	ExposeMetrics bool

	// RateLimit is the per-IP request rate; 0 disables limiting.
	RateLimit float64
	RateBurst int
	// TrustProxy takes the client IP from X-Forwarded-For or X-Real-IP.
	// Set it only behind a proxy that overwrites those headers.
	TrustProxy bool

	// CORSOrigins is the list of allowed CORS origins (empty = no CORS).
	CORSOrigins []string
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Deps.Logger == nil {
		cfg.Deps.Logger = log
	}

	h := handler.New(cfg.Deps)

	mux := http.NewServeMux()

	// Health stays outside the rate limiter so shell probes never fail.
	mux.Handle("GET /health", h)

	if cfg.ExposeMetrics && cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Order: RateLimit -> Handler
	var api http.Handler = h
	if cfg.RateLimit > 0 {
		api = RateLimit(cfg.RateLimit, cfg.RateBurst, cfg.TrustProxy)(api)
	}
	mux.Handle("/v1/", api)

	// Order: Recover -> RequestID -> AccessLog -> CORS -> mux
	middlewares := []Middleware{
		Recover(log),
		RequestID(),
		AccessLog(log, cfg.Metrics),
	}
	if len(cfg.CORSOrigins) > 0 {
		middlewares = append(middlewares, CORS(cfg.CORSOrigins))
	}
	return Chain(mux, middlewares...)
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		ExposeMetrics: true,
		RateLimit:     20,
		RateBurst:     40,
	}
}
