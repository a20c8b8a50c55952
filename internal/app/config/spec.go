package config

import (
	"time"

	"github.com/yndnr/fitplan-go/internal/completion"
	"github.com/yndnr/fitplan-go/internal/core/service"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

// AppConfig is the root configuration.
type AppConfig struct {
	Storage    storage.Config     `koanf:"storage" yaml:"storage" json:"storage"`
	Completion completion.Config  `koanf:"completion" yaml:"completion" json:"completion"`
	Plan       service.PlanConfig `koanf:"plan" yaml:"plan" json:"plan"`
	Shell      ShellSection       `koanf:"shell" yaml:"shell" json:"shell"`
	Log        logger.Config      `koanf:"log" yaml:"log" json:"log"`
}

// ShellSection configures the fitplan-shell HTTP bridge.
type ShellSection struct {
	// Addr is the listen address. The bridge is meant for a local shell
	// process, so the default binds to loopback.
	Addr string `koanf:"addr" yaml:"addr" json:"addr"`

	// Socket additionally serves the bridge on a Unix socket when set.
	Socket string `koanf:"socket" yaml:"socket" json:"socket"`

	// RateLimit is the sustained request rate per second; 0 disables it.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst" json:"rate_burst"`

	// TrustProxy takes the rate-limited client IP from X-Forwarded-For or
	// X-Real-IP. Leave it off unless a proxy in front rewrites them.
	TrustProxy bool `koanf:"trust_proxy" yaml:"trust_proxy" json:"trust_proxy"`

	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`

	// CORSOrigins lists origins allowed to call the bridge from a web view.
	// Empty disables CORS headers.
	CORSOrigins []string `koanf:"cors_origins" yaml:"cors_origins" json:"cors_origins"`

	// Metrics exposes GET /metrics.
	Metrics bool `koanf:"metrics" yaml:"metrics" json:"metrics"`

	// WatchConfig reloads the log level when the config file changes.
	WatchConfig bool `koanf:"watch_config" yaml:"watch_config" json:"watch_config"`
}
