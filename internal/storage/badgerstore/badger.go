// Package badgerstore is the embedded Badger backend for storage.Store.
//
// It lives apart from package storage so that code using only the Store
// contract does not link Badger and its background goroutines.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/fitplan-go/internal/storage"
)

// Store implements storage.Store using Badger v3.
type Store struct {
	db     *badger.DB
	cfg    storage.BadgerConfig
	logger *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once

	lastGCTime atomic.Int64 // Unix milliseconds
	gcRuns     atomic.Uint64

	metricsLSMSize      prometheus.GaugeFunc
	metricsValueLogSize prometheus.GaugeFunc
	metricsGCRuns       prometheus.Counter

	stopCh chan struct{}
	doneCh chan struct{}
}

// Open opens a Badger database in cfg.Dir.
func Open(cfg storage.Config, logger *slog.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = &badgerLogger{logger: logger}

	badgerCfg := cfg.Badger
	if badgerCfg.CacheSize > 0 {
		opts.BlockCacheSize = badgerCfg.CacheSize
	}
	if badgerCfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = badgerCfg.ValueLogFileSize
	}
	opts.SyncWrites = badgerCfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &Store{
		db:     db,
		cfg:    badgerCfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop()

	logger.Info("badger store opened",
		"dir", cfg.Dir,
		"sync_writes", badgerCfg.SyncWrites,
		"gc_interval", badgerCfg.GCInterval)

	return s, nil
}

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s.closed.Load() {
		return "", storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Set stores a key-value pair.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if s.closed.Load() {
		return storage.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// GC runs value log garbage collection until nothing more can be rewritten.
// Returns the number of value log files rewritten.
func (s *Store) GC(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, storage.ErrClosed
	}

	startTime := time.Now()
	rewritten := 0
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return rewritten, fmt.Errorf("gc: %w", err)
		}
		rewritten++
	}

	s.lastGCTime.Store(time.Now().UnixMilli())
	s.gcRuns.Add(1)
	if s.metricsGCRuns != nil {
		s.metricsGCRuns.Inc()
	}

	s.logger.Debug("gc completed",
		"files_rewritten", rewritten,
		"elapsed", time.Since(startTime))

	return rewritten, nil
}

// LastGC returns the completion time of the last GC pass, or the zero time.
func (s *Store) LastGC() time.Time {
	ms := s.lastGCTime.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// Size returns the LSM and value log sizes in bytes.
func (s *Store) Size() (lsm, vlog int64) {
	return s.db.Size()
}

// Close stops the GC loop and closes the database.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.stopCh)
		<-s.doneCh

		if cerr := s.db.Close(); cerr != nil {
			err = fmt.Errorf("close db: %w", cerr)
			return
		}
		s.logger.Info("badger store closed")
	})
	return err
}

// RegisterMetrics registers Badger size and GC metrics with registry.
func (s *Store) RegisterMetrics(registry prometheus.Registerer) *Store {
	s.metricsLSMSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "fitplan",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	}, func() float64 {
		lsm, _ := s.db.Size()
		return float64(lsm)
	})

	s.metricsValueLogSize = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "fitplan",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	}, func() float64 {
		_, vlog := s.db.Size()
		return float64(vlog)
	})

	s.metricsGCRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitplan",
		Subsystem: "badger",
		Name:      "gc_runs_total",
		Help:      "Completed Badger value log GC passes",
	})

	registry.MustRegister(s.metricsLSMSize, s.metricsValueLogSize, s.metricsGCRuns)
	return s
}

// gcLoop runs periodic garbage collection.
func (s *Store) gcLoop() {
	defer close(s.doneCh)

	interval, err := time.ParseDuration(s.cfg.GCInterval)
	if err != nil || interval <= 0 {
		s.logger.Warn("invalid gc_interval, using default 10m", "value", s.cfg.GCInterval)
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if _, err := s.GC(ctx); err != nil && !errors.Is(err, storage.ErrClosed) {
				s.logger.Error("auto gc failed", "error", err)
			}
			cancel()

		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
