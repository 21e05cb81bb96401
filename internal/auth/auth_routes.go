package auth

import (
	"go-thread/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts /auth. loginRate and loginBurst throttle the
// credential endpoints per client IP.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlerFunc,
	idempotency gin.HandlerFunc,
	loginRate rate.Limit,
	loginBurst int,
) {
	credentials := middleware.RateLimitByIP(loginRate, loginBurst)

	g := r.Group("/auth")
	{
		g.POST("/signup", credentials, idempotency, handler.Signup)
		g.POST("/login", credentials, handler.Login)
		g.POST("/logout", auth, handler.Logout)
		g.POST("/change-password", auth, middleware.RateLimitByUser(0.5, 3), handler.ChangePassword)
		g.GET("/me", auth, middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
