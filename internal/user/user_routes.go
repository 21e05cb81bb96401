package user

import (
	"go-thread/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, idempotency gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(auth)
	{
		users.GET("",
			middleware.RateLimitByUser(5, 10),
			handler.GetAll,
		)
		users.GET("/:id",
			middleware.RateLimitByUser(5, 10),
			handler.GetByID,
		)
		users.POST("",
			middleware.RateLimitByUser(0.5, 2),
			idempotency,
			handler.Create,
		)
		users.PATCH("/:id",
			middleware.RateLimitByUser(1, 3),
			handler.Update,
		)
	}
}
