// Package storage provides the device-local key-value store for FitPlan.
//
// This file defines the Store contract shared by every backend
// (Badger, SQLite, Redis, in-memory) and the storage configuration.
package storage

import (
	"context"
	"errors"
)

// Common errors
var (
	// ErrKeyNotFound is returned by Get when the key has no value.
	// Callers treat it as a valid empty state, not a failure.
	ErrKeyNotFound = errors.New("key not found")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// Store is a durable string-to-string key-value store.
//
// Implementation requirements:
//   - At most one value per key; the latest Set wins.
//   - Operations on the same key are serialized by the implementation.
//   - Get on an absent key returns ErrKeyNotFound.
//   - Delete on an absent key is not an error.
type Store interface {
	// Get retrieves the value stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// Engine names accepted by Config.Engine.
const (
	EngineBadger = "badger"
	EngineSQLite = "sqlite"
	EngineRedis  = "redis"
	EngineMemory = "memory"
)

// Config configures the key-value store.
type Config struct {
	// Engine selects the backend ("badger", "sqlite", "redis", "memory").
	// Default: "badger"
	Engine string `koanf:"engine" yaml:"engine" json:"engine"`

	// Dir is the storage directory for file-backed engines.
	Dir string `koanf:"dir" yaml:"dir" json:"dir"`

	// EncryptionKey enables at-rest encryption of values when non-empty.
	// Hex-encoded, 32 bytes.
	EncryptionKey string `koanf:"encryption_key" yaml:"encryption_key" json:"encryption_key"`

	Badger BadgerConfig `koanf:"badger" yaml:"badger" json:"badger"`
	SQLite SQLiteConfig `koanf:"sqlite" yaml:"sqlite" json:"sqlite"`
	Redis  RedisConfig  `koanf:"redis" yaml:"redis" json:"redis"`
}

// BadgerConfig contains Badger-specific tuning parameters.
type BadgerConfig struct {
	// GCInterval is the interval between automatic value log GC runs.
	// Default: 10m
	GCInterval string `koanf:"gc_interval" yaml:"gc_interval" json:"gc_interval"`

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64 `koanf:"gc_threshold" yaml:"gc_threshold" json:"gc_threshold"`

	// CacheSize is the block cache size in bytes.
	// Default: 8MB
	CacheSize int64 `koanf:"cache_size" yaml:"cache_size" json:"cache_size"`

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 64MB
	ValueLogFileSize int64 `koanf:"value_log_file_size" yaml:"value_log_file_size" json:"value_log_file_size"`

	// SyncWrites enables fsync after each write.
	// Default: true (every write is a user-visible state change)
	SyncWrites bool `koanf:"sync_writes" yaml:"sync_writes" json:"sync_writes"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Path is the database file. Default: {Dir}/fitplan.db
	Path string `koanf:"path" yaml:"path" json:"path"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `koanf:"addr" yaml:"addr" json:"addr"`
	Password string `koanf:"password" yaml:"password" json:"password"`
	DB       int    `koanf:"db" yaml:"db" json:"db"`

	// Prefix namespaces the keys, e.g. "fitplan:" + device id.
	Prefix string `koanf:"prefix" yaml:"prefix" json:"prefix"`
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(dir string) Config {
	return Config{
		Engine: EngineBadger,
		Dir:    dir,
		Badger: DefaultBadgerConfig(),
		Redis: RedisConfig{
			Addr:   "127.0.0.1:6379",
			Prefix: "fitplan:",
		},
	}
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        8 << 20,  // 8MB
		ValueLogFileSize: 64 << 20, // 64MB
		SyncWrites:       true,
	}
}
