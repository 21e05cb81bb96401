package middleware

import (
	"go-thread/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger attaches a request-scoped logger carrying the request id to
// the request context so services can log without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString(requestIDKey)
		if rid == "" {
			rid = c.GetHeader(RequestIDHeader)
		}
		if !acceptableRequestID(rid) {
			rid = uuid.NewString()
			c.Header(RequestIDHeader, rid)
		}

		reqLogger := logger.With(zap.String("request_id", rid))

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
