package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/fitplan-go/internal/completion"
	"github.com/yndnr/fitplan-go/internal/core/service"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

// Default configuration values.
const (
	DefaultShellAddr       = "127.0.0.1:7420"
	DefaultRateLimit       = 20
	DefaultRateBurst       = 40
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// DefaultDataDir returns the per-user data directory,
// $XDG_DATA_HOME/fitplan or ~/.local/share/fitplan.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "fitplan")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "fitplan")
	}
	return filepath.Join(os.TempDir(), "fitplan")
}

// DefaultConfigFile returns the config path used when none is given,
// $XDG_CONFIG_HOME/fitplan/fitplan.yaml or its home-relative default.
func DefaultConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "fitplan", "fitplan.yaml")
}

// Default returns the default configuration.
func Default() *AppConfig {
	return &AppConfig{
		Storage:    storage.DefaultConfig(DefaultDataDir()),
		Completion: completion.DefaultConfig(),
		Plan: service.PlanConfig{
			PromptTemplate: service.DefaultPromptTemplate,
		},
		Shell: ShellSection{
			Addr:            DefaultShellAddr,
			RateLimit:       DefaultRateLimit,
			RateBurst:       DefaultRateBurst,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			Metrics:         true,
		},
		Log: logger.DefaultConfig(),
	}
}
