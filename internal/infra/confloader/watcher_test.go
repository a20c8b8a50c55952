package confloader

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_ReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitplan.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}

	changed := make(chan string, 4)
	w.OnChange(func(p string) { changed <- p })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give fsnotify a moment, then write twice in quick succession.
	time.Sleep(20 * time.Millisecond)
	_ = os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600)
	_ = os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600)

	select {
	case got := <-changed:
		if got != path {
			t.Errorf("OnChange path = %q, want %q", got, path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fitplan.yaml")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(path, WithDebounce(10*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	w.OnChange(func(string) { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1"), 0o600)
	time.Sleep(100 * time.Millisecond)

	cancel()
	<-done
	if calls.Load() != 0 {
		t.Errorf("callbacks = %d for unrelated file", calls.Load())
	}
}

func TestNewWatcher_MissingDir(t *testing.T) {
	if _, err := NewWatcher("/nonexistent/dir/fitplan.yaml"); err == nil {
		t.Error("NewWatcher() on a missing directory should fail")
	}
}
