package app

import (
	"context"
	"errors"

	"go-thread/internal/config"
	"go-thread/internal/middleware"
	"go-thread/internal/shared/connection"
	"go-thread/internal/storage"
	"go-thread/internal/workforce"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenStore connects the configured backend and loads the workforce store.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*workforce.Store, storage.Store, error) {
	kv, err := OpenKV(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := workforce.Open(ctx, kv, logger)
	if err != nil {
		_ = kv.Close()
		return nil, nil, err
	}
	return store, kv, nil
}

// BuildApp wires infrastructure, services and routes onto router. The
// returned func releases the connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L()

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	// 1. Setup Infrastructure
	store, kv, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("workforce store loaded", zap.String("storage", cfg.Storage))

	var rdb *redis.Client
	if cfg.Idempotency {
		rdb, err = connection.ConnectRedisWithRetry(ctx, cfg.RedisAddr, cfg.ConnectRetries)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	cleanup := func() {
		if rdb != nil {
			_ = rdb.Close()
		}
		if err := store.Close(); err != nil {
			logger.Warn("close store failed", zap.Error(err))
		}
	}

	svc, err := NewServices(cfg, store, kv, logger)
	if err != nil {
		cleanup()
		return nil, err
	}

	// 2. Register Modules & Routes
	router.Use(middleware.RequestID(), middleware.ContextLogger(logger))
	registerModules(router, cfg, svc, rdb, logger)

	return cleanup, nil
}
