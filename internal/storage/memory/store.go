// Package memory provides an in-memory Store.
//
// It backs tests and ephemeral runs (storage.engine: memory); nothing
// survives process exit.
package memory

import (
	"context"
	"sync"

	"github.com/yndnr/fitplan-go/internal/storage"
)

// Store is a mutex-guarded map implementing storage.Store.
type Store struct {
	mu     sync.RWMutex
	items  map[string]string
	closed bool
	writes uint64
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{items: make(map[string]string)}
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", storage.ErrClosed
	}
	v, ok := s.items[key]
	if !ok {
		return "", storage.ErrKeyNotFound
	}
	return v, nil
}

// Set stores a key-value pair.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	s.items[key] = value
	s.writes++
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrClosed
	}
	delete(s.items, key)
	return nil
}

// Close marks the store closed. Further operations return storage.ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Snapshot returns a copy of the current contents.
func (s *Store) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out
}
