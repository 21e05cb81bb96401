package app

import (
	"context"
	"fmt"

	"go-thread/internal/config"
	"go-thread/internal/shared/connection"
	"go-thread/internal/storage"
	"go-thread/internal/storage/gormkv"
	"go-thread/internal/storage/memory"
	"go-thread/internal/storage/rediskv"
	"go-thread/internal/storage/sqlite"
)

// OpenKV connects the backend selected by THREAD_STORAGE.
func OpenKV(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return memory.New(), nil
	case config.StorageSQLite:
		return sqlite.Open(cfg.SQLitePath)
	case config.StorageRedis:
		rdb, err := connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			return nil, err
		}
		return rediskv.New(rdb), nil
	case config.StoragePostgres:
		db, err := connection.ConnectGORMWithRetry(ctx, cfg.DB, cfg.ConnectRetries)
		if err != nil {
			return nil, err
		}
		kv := gormkv.New(db)
		if err := kv.Migrate(ctx); err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("migrate kv_entries: %w", err)
		}
		return kv, nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
