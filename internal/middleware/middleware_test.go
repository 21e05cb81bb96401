package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-thread/internal/domain"
	"go-thread/internal/middleware"
	"go-thread/internal/rbac"
	"go-thread/internal/rbac/infra"
	"go-thread/internal/shared/contextutil"
	"go-thread/internal/shared/token"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	tokens := token.NewManager("secret", time.Hour)
	sess := domain.Session{UserID: "u1", CompanyID: "acme-corp", Role: domain.RoleEmployee}
	valid, _, err := tokens.Issue(sess)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(tokens), func(c *gin.Context) {
		assert.Equal(t, sess, middleware.Session(c))
		assert.Equal(t, sess, contextutil.GetSession(c.Request.Context()))
		assert.Equal(t, "acme-corp", c.GetString("company_id"))
		c.Status(http.StatusNoContent)
	})

	t.Run("bearer header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: valid})
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"INVALID_TOKEN"`)
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/admin", func(c *gin.Context) {
		middleware.SetSession(c, domain.Session{UserID: "u1", CompanyID: "c", Role: domain.Role(c.Query("role"))})
	}, middleware.RoleMiddleware(domain.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=ADMIN", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin?role=EMPLOYEE", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACAuthorize(t *testing.T) {
	e, err := infra.NewEnforcer(rbac.DefaultPolicies())
	require.NoError(t, err)
	svc := rbac.NewService(e)

	r := gin.New()
	r.GET("/summary", func(c *gin.Context) {
		if role := c.Query("role"); role != "" {
			middleware.SetSession(c, domain.Session{UserID: "u1", CompanyID: "c", Role: domain.Role(role)})
		}
	}, middleware.RBACAuthorize(svc, rbac.ResourcePayrollSummary, rbac.ActionRead), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := map[string]int{
		"/summary?role=ADMIN":    http.StatusNoContent,
		"/summary?role=EMPLOYEE": http.StatusForbidden,
		"/summary":               http.StatusUnauthorized,
	}
	for path, want := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}
}

func TestRateLimitByIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", middleware.RateLimitByIP(rate.Limit(0.001), 2), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRequestIDAndContextLogger(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		assert.Equal(t, "rid-42", contextutil.GetRequestID(c.Request.Context()))
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	r.ServeHTTP(w, req)
	assert.Equal(t, "rid-42", w.Header().Get("X-Request-ID"))
}

func TestRequestID_ReplacesUnsafeHeader(t *testing.T) {
	for name, header := range map[string]string{
		"newline":  "rid\nforged: yes",
		"too long": strings.Repeat("a", 65),
		"spaces":   "two words",
	} {
		t.Run(name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/", func(c *gin.Context) {
				seen = contextutil.GetRequestID(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header[http.CanonicalHeaderKey(middleware.RequestIDHeader)] = []string{header}
			r.ServeHTTP(w, req)

			assert.NotEqual(t, header, seen)
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
			assert.Equal(t, seen, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestIdempotency(t *testing.T) {
	body := []byte(`{"ok":true}`)
	cacheKey := "idemp:/users::key-1"

	t.Run("first request stores response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, body, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(cacheKey + ":lock").SetVal(1)

		calls := 0
		r := gin.New()
		r.POST("/users", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			calls++
			c.Data(http.StatusCreated, "application/json", body)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay skips handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).SetVal(string(body))

		r := gin.New()
		r.POST("/users", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			t.Fatal("handler must not run on replay")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, string(body), w.Body.String())
	})

	t.Run("concurrent duplicate conflicts", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		r := gin.New()
		r.POST("/users", middleware.Idempotency(rdb, zap.NewNop()), func(c *gin.Context) {
			t.Fatal("handler must not run while locked")
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("nil client passes through", func(t *testing.T) {
		r := gin.New()
		r.POST("/users", middleware.Idempotency(nil, zap.NewNop()), func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
