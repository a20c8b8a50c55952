package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `koanf:"level" json:"level" yaml:"level"`
	// Format is the output format (json, text).
	Format string `koanf:"format" json:"format" yaml:"format"`
	// AddSource adds source file information to log entries.
	AddSource bool `koanf:"add_source" json:"add_source" yaml:"add_source"`
	// Output is the destination, os.Stderr when nil.
	Output io.Writer `koanf:"-" json:"-" yaml:"-"`
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "json",
	}
}

// level is shared by every logger built here so SetLevel applies
// process-wide, e.g. after a config reload.
var level = new(slog.LevelVar)

// New creates a logger from cfg.
func New(cfg Config) *slog.Logger {
	level.Set(ParseLevel(cfg.Level))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return redactSensitive(a)
		},
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text", "console":
		h = slog.NewTextHandler(out, opts)
	default:
		h = slog.NewJSONHandler(out, opts)
	}
	return slog.New(&contextHandler{Handler: h})
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// SetLevel changes the level of every logger created by New.
func SetLevel(s string) {
	level.Set(ParseLevel(s))
}

// GetLevel returns the current level name.
func GetLevel() string {
	switch level.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	default:
		return "info"
	}
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ValidLevel reports whether s names a known level.
func ValidLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

var defaultLogger atomic.Pointer[slog.Logger]

func init() {
	defaultLogger.Store(New(DefaultConfig()))
}

// SetDefault installs l as the package default and as slog's default.
func SetDefault(l *slog.Logger) {
	if l == nil {
		return
	}
	defaultLogger.Store(l)
	slog.SetDefault(l)
}

// Default returns the package default logger.
func Default() *slog.Logger {
	return defaultLogger.Load()
}
