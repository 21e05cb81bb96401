package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

var errRequestInFlight = apperror.New(
	apperror.CodeConflict,
	"A request with this Idempotency-Key is still being processed",
	http.StatusConflict,
)

type capturingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *capturingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response of a POST carrying a previously
// seen Idempotency-Key. A nil client disables it.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id"), idempKey)
		lockKey := cacheKey + ":lock"

		cached, err := rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}
		if !errors.Is(err, redis.Nil) {
			logger.Warn("idempotency lookup failed", zap.Error(err))
			c.Next()
			return
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			logger.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.AppError(c, errRequestInFlight)
			c.Abort()
			return
		}

		w := &capturingWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() < http.StatusBadRequest {
			if err := rdb.Set(ctx, cacheKey, w.body.Bytes(), idempotencyTTL).Err(); err != nil {
				logger.Warn("idempotency store failed", zap.Error(err))
			}
		}
		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			logger.Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}
