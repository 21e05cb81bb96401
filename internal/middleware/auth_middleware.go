package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-thread/internal/domain"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/contextutil"
	"go-thread/internal/shared/response"
	"go-thread/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "session"

var (
	errTokenMissing = apperror.New(apperror.CodeUnauthorized, "Token not found", http.StatusUnauthorized)
	errTokenInvalid = apperror.New("INVALID_TOKEN", "Invalid token", http.StatusUnauthorized)
	errTokenExpired = apperror.New("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)
)

// TokenParser resolves a bearer token to a session.
type TokenParser interface {
	Parse(tokenString string) (domain.Session, error)
}

// AuthMiddleware authenticates the request from the Authorization header or
// the access_token cookie and stores the session on both contexts.
func AuthMiddleware(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			response.AppError(c, errTokenMissing)
			c.Abort()
			return
		}

		sess, err := tokens.Parse(tokenString)
		if err != nil {
			errObj := errTokenInvalid
			if errors.Is(err, token.ErrExpired) {
				errObj = errTokenExpired
			}
			response.AppError(c, errObj)
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set("user_id", sess.UserID)
		c.Set("company_id", sess.CompanyID)
		c.Set("role", string(sess.Role))

		ctx := contextutil.WithSession(c.Request.Context(), sess)
		logger := contextutil.GetLogger(ctx, nil).With(zap.String("user_id", sess.UserID))
		ctx = contextutil.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RoleMiddleware rejects callers whose role is not listed.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString("role"))
		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.AppError(c, apperror.ErrForbidden)
		c.Abort()
	}
}

// Session returns the session set by AuthMiddleware, or the zero session.
func Session(c *gin.Context) domain.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(domain.Session); ok {
			return sess
		}
	}
	return domain.Session{}
}

// SetSession is used by handlers that sign a caller in and by tests.
func SetSession(c *gin.Context, sess domain.Session) {
	c.Set(sessionKey, sess)
	c.Set("user_id", sess.UserID)
	c.Set("company_id", sess.CompanyID)
	c.Set("role", string(sess.Role))
}
