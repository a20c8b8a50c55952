package confloader

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports changes to one configuration file.
//
// The parent directory is watched so editors that save by rename are
// seen. Bursts of events within the debounce window collapse into one
// callback.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu        sync.RWMutex
	callbacks []func(path string)
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher watches path.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fsw,
		path:     filepath.Clean(path),
		debounce: 200 * time.Millisecond,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// OnChange registers a callback run after the file changes.
func (w *Watcher) OnChange(cb func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, cb)
}

// Run delivers change notifications until ctx is done, then closes the
// underlying watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	w.logger.Debug("config watcher started", "file", w.path)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("config watcher stopped", "file", w.path)
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-timer.C:
			w.logger.Info("config file changed", "file", w.path)
			w.notify()
		}
	}
}

func (w *Watcher) notify() {
	w.mu.RLock()
	cbs := append([]func(string){}, w.callbacks...)
	w.mu.RUnlock()

	for _, cb := range cbs {
		cb(w.path)
	}
}
