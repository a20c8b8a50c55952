// Package redisstore provides a Redis-backed Store.
//
// It lets several shell processes (or a simulator and a test harness)
// share one device state. Keys are namespaced with a configurable prefix.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yndnr/fitplan-go/internal/storage"
)

// Store wraps a redis client.
type Store struct {
	redis  *redis.Client
	prefix string
	owned  bool
}

// New wraps an existing client. Close does not close a client it does not own.
func New(client *redis.Client, prefix string) *Store {
	return &Store{redis: client, prefix: prefix}
}

// Open dials Redis with cfg and verifies the connection.
func Open(ctx context.Context, cfg storage.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	s := New(client, cfg.Prefix)
	s.owned = true
	return s, nil
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.redis.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", storage.ErrKeyNotFound
		}
		return "", s.mapErr("get", err)
	}
	return v, nil
}

// Set stores a key-value pair without expiry.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.redis.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return s.mapErr("set", err)
	}
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, s.key(key)).Err(); err != nil {
		return s.mapErr("del", err)
	}
	return nil
}

// Close closes the client if the store opened it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.redis.Close()
}

func (s *Store) mapErr(op string, err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return storage.ErrClosed
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
