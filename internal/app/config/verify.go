package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/yndnr/fitplan-go/internal/core/domain"
	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/telemetry/logger"
)

// Verify validates cfg and returns every problem found, joined.
// The returned error matches domain.ErrInvalidConfig.
func Verify(cfg *AppConfig) error {
	var errs []error
	errs = append(errs, verifyStorage(&cfg.Storage)...)
	errs = append(errs, verifyCompletion(cfg)...)
	errs = append(errs, verifyShell(&cfg.Shell)...)
	if !logger.ValidLevel(cfg.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not json or text", cfg.Log.Format))
	}

	if len(errs) == 0 {
		return nil
	}
	return domain.ErrInvalidConfig.WithCause(errors.Join(errs...))
}

func verifyStorage(cfg *storage.Config) []error {
	var errs []error
	switch cfg.Engine {
	case storage.EngineBadger, storage.EngineSQLite:
		if cfg.Dir == "" && cfg.SQLite.Path == "" {
			errs = append(errs, errors.New("storage.dir is required"))
		} else if cfg.Dir != "" {
			if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
				errs = append(errs, fmt.Errorf("storage.dir: %w", err))
			}
		}
	case storage.EngineRedis:
		if cfg.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr is required"))
		}
	case storage.EngineMemory:
	default:
		errs = append(errs, fmt.Errorf("storage.engine %q is not one of badger, sqlite, redis, memory", cfg.Engine))
	}

	if cfg.Engine == storage.EngineBadger {
		if _, err := time.ParseDuration(cfg.Badger.GCInterval); err != nil {
			errs = append(errs, fmt.Errorf("storage.badger.gc_interval: %w", err))
		}
		if cfg.Badger.GCThreshold <= 0 || cfg.Badger.GCThreshold >= 1 {
			errs = append(errs, errors.New("storage.badger.gc_threshold must be in (0, 1)"))
		}
	}

	if cfg.EncryptionKey != "" {
		key, err := hex.DecodeString(strings.TrimSpace(cfg.EncryptionKey))
		if err != nil || len(key) != 32 {
			errs = append(errs, errors.New("storage.encryption_key must be 64 hex characters"))
		}
	}
	return errs
}

func verifyCompletion(cfg *AppConfig) []error {
	var errs []error
	c := cfg.Completion

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("completion.base_url %q must be an http(s) URL", c.BaseURL))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("completion.model is required"))
	}
	if c.MaxTokens <= 0 {
		errs = append(errs, errors.New("completion.max_tokens must be positive"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, errors.New("completion.timeout must be positive"))
	}
	if c.CAFile != "" {
		if _, err := os.Stat(c.CAFile); err != nil {
			errs = append(errs, fmt.Errorf("completion.ca_file: %w", err))
		}
	}
	if c.RatePerSecond < 0 {
		errs = append(errs, errors.New("completion.rate_per_second must not be negative"))
	}

	if cfg.Plan.MaxTokens < 0 {
		errs = append(errs, errors.New("plan.max_tokens must not be negative"))
	}
	if cfg.Plan.PromptTemplate != "" {
		if _, err := template.New("prompt").Parse(cfg.Plan.PromptTemplate); err != nil {
			errs = append(errs, fmt.Errorf("plan.prompt_template: %w", err))
		}
	}
	return errs
}

func verifyShell(cfg *ShellSection) []error {
	var errs []error
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		errs = append(errs, fmt.Errorf("shell.addr: %w", err))
	}
	if len(cfg.Socket) > maxSocketPath {
		errs = append(errs, fmt.Errorf("shell.socket is longer than %d bytes", maxSocketPath))
	}
	if cfg.RateLimit < 0 {
		errs = append(errs, errors.New("shell.rate_limit must not be negative"))
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		errs = append(errs, errors.New("shell.rate_burst must be at least 1"))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shell.shutdown_timeout must be positive"))
	}
	return errs
}

// maxSocketPath is the portable sun_path limit, including the NUL.
const maxSocketPath = 103
