// Package storagetest provides a behavioural test suite shared by all
// storage.Store backends.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/yndnr/fitplan-go/internal/storage"
)

// Factory opens a fresh, empty store for one subtest.
type Factory func(t *testing.T) storage.Store

// RunContract exercises the storage.Store contract against newStore.
func RunContract(t *testing.T, newStore Factory) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get absent key", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "user")
		if !errors.Is(err, storage.ErrKeyNotFound) {
			t.Errorf("Get(absent) error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Set and Get", func(t *testing.T) {
		s := newStore(t)
		value := `{"id":"u-1","name":"Sam"}`
		if err := s.Set(ctx, "user", value); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := s.Get(ctx, "user")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != value {
			t.Errorf("Get() = %q, want %q", got, value)
		}
	})

	t.Run("Latest write wins", func(t *testing.T) {
		s := newStore(t)
		for _, r := range []string{"home", "planScreen", "chartScreen"} {
			if err := s.Set(ctx, "lastPage", r); err != nil {
				t.Fatalf("Set(%q) error = %v", r, err)
			}
		}
		got, err := s.Get(ctx, "lastPage")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got != "chartScreen" {
			t.Errorf("Get() = %q, want chartScreen", got)
		}
	})

	t.Run("Keys are independent", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "user", "u"); err != nil {
			t.Fatal(err)
		}
		if err := s.Set(ctx, "lastPage", "home"); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "user"); err != nil {
			t.Fatal(err)
		}
		if got, err := s.Get(ctx, "lastPage"); err != nil || got != "home" {
			t.Errorf("Get(lastPage) = %q, %v", got, err)
		}
	})

	t.Run("Empty value is a value", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "lastPage", ""); err != nil {
			t.Fatal(err)
		}
		got, err := s.Get(ctx, "lastPage")
		if err != nil {
			t.Fatalf("Get() error = %v, want nil for stored empty string", err)
		}
		if got != "" {
			t.Errorf("Get() = %q, want empty", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		if err := s.Set(ctx, "user", "u"); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "user"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, "user"); !errors.Is(err, storage.ErrKeyNotFound) {
			t.Errorf("Get after Delete error = %v, want ErrKeyNotFound", err)
		}
		if err := s.Delete(ctx, "user"); err != nil {
			t.Errorf("Delete(absent) error = %v, want nil", err)
		}
	})

	t.Run("Unicode values", func(t *testing.T) {
		s := newStore(t)
		value := "Kraftausdauer 💪 — 3×12"
		if err := s.Set(ctx, "note", value); err != nil {
			t.Fatal(err)
		}
		if got, err := s.Get(ctx, "note"); err != nil || got != value {
			t.Errorf("Get() = %q, %v", got, err)
		}
	})

	t.Run("Concurrent writers", func(t *testing.T) {
		s := newStore(t)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					if err := s.Set(ctx, "lastPage", fmt.Sprintf("r%d-%d", i, j)); err != nil {
						t.Errorf("Set() error = %v", err)
						return
					}
				}
			}(i)
		}
		wg.Wait()

		if _, err := s.Get(ctx, "lastPage"); err != nil {
			t.Errorf("Get() after concurrent writes error = %v", err)
		}
	})
}
