package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yndnr/fitplan-go/internal/storage"
	"github.com/yndnr/fitplan-go/internal/storage/badgerstore"
	"github.com/yndnr/fitplan-go/internal/storage/memory"
	"github.com/yndnr/fitplan-go/internal/storage/redisstore"
	"github.com/yndnr/fitplan-go/internal/storage/sealed"
	"github.com/yndnr/fitplan-go/internal/storage/sqlitestore"
	"github.com/yndnr/fitplan-go/internal/telemetry/metric"
)

// OpenStore opens the backend selected by cfg.Engine. Values are sealed
// when cfg.EncryptionKey is set, and operations are counted when metrics
// is non-nil.
func OpenStore(ctx context.Context, cfg storage.Config, logger *slog.Logger, metrics *metric.Registry) (storage.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		store storage.Store
		err   error
	)
	switch cfg.Engine {
	case storage.EngineBadger, "":
		var bs *badgerstore.Store
		bs, err = badgerstore.Open(cfg, logger.With("component", "badger"))
		if err == nil && metrics != nil {
			bs.RegisterMetrics(metrics.Registerer())
		}
		store = bs
	case storage.EngineSQLite:
		path := cfg.SQLite.Path
		if path == "" {
			path = filepath.Join(cfg.Dir, "fitplan.db")
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o750); mkErr != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", mkErr)
		}
		store, err = sqlitestore.Open(path)
	case storage.EngineRedis:
		store, err = redisstore.Open(ctx, cfg.Redis)
	case storage.EngineMemory:
		store = memory.New()
	default:
		return nil, fmt.Errorf("unknown storage engine %q", cfg.Engine)
	}
	if err != nil {
		return nil, err
	}

	engine := cfg.Engine
	if engine == "" {
		engine = storage.EngineBadger
	}

	if cfg.EncryptionKey != "" {
		sealedStore, sErr := sealed.NewFromHex(store, cfg.EncryptionKey)
		if sErr != nil {
			_ = store.Close()
			return nil, sErr
		}
		logger.Info("storage encryption enabled", "cipher", sealedStore.Cipher().String())
		store = sealedStore
	}

	logger.Info("storage opened", "engine", engine)
	return storage.Instrument(store, engine, metrics), nil
}
