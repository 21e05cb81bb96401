package connection

import (
	"context"
	"fmt"
	"time"

	"go-thread/internal/config"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const retryDelay = 5 * time.Second

func PostgresDSN(c config.DBConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

func ConnectGORMWithRetry(ctx context.Context, c config.DBConfig, maxRetries int) (*gorm.DB, error) {
	log := zap.L().Named("connection")
	var lastErr error

	for i := 1; i <= maxRetries; i++ {
		db, err := gorm.Open(postgres.Open(PostgresDSN(c)), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			lastErr = err
			log.Warn("gorm open failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			if !sleep(ctx, retryDelay) {
				return nil, ctx.Err()
			}
			continue
		}

		sqlDB, err := db.DB()
		if err != nil {
			lastErr = err
			log.Warn("get sql.DB failed", zap.Int("attempt", i), zap.Error(err))
			if !sleep(ctx, retryDelay) {
				return nil, ctx.Err()
			}
			continue
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			lastErr = err
			log.Warn("db ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			if !sleep(ctx, retryDelay) {
				return nil, ctx.Err()
			}
			continue
		}

		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(time.Hour)

		log.Info("gorm connected to database", zap.String("host", c.Host), zap.String("db", c.Name))
		return db, nil
	}

	return nil, fmt.Errorf("database connection failed after %d retries: %w", maxRetries, lastErr)
}

func ConnectRedisWithRetry(ctx context.Context, addr string, maxRetries int) (*redis.Client, error) {
	log := zap.L().Named("connection")
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		if lastErr = rdb.Ping(ctx).Err(); lastErr == nil {
			log.Info("connected to redis", zap.String("addr", addr))
			return rdb, nil
		}
		log.Warn("redis ping failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(lastErr))
		if !sleep(ctx, retryDelay) {
			break
		}
	}

	_ = rdb.Close()
	return nil, fmt.Errorf("redis connection failed after %d retries: %w", maxRetries, lastErr)
}

// ConnectKafkaWithRetry waits until broker accepts a connection and returns a
// writer that routes by message topic.
func ConnectKafkaWithRetry(ctx context.Context, broker string, maxRetries int) (*kafkago.Writer, error) {
	log := zap.L().Named("connection")

	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			log.Info("connected to kafka", zap.String("broker", broker))
			return &kafkago.Writer{
				Addr:                   kafkago.TCP(broker),
				Balancer:               &kafkago.Hash{},
				RequiredAcks:           kafkago.RequireAll,
				AllowAutoTopicCreation: true,
			}, nil
		}
		lastErr = err
		log.Warn("kafka dial failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
		if !sleep(ctx, retryDelay) {
			break
		}
	}

	return nil, fmt.Errorf("kafka connection failed after %d retries: %w", maxRetries, lastErr)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
