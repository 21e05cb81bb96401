package attendance

import (
	"go-thread/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, auth gin.HandlerFunc) {
	attendances := r.Group("/attendances")
	attendances.Use(auth)
	{
		attendances.GET("", middleware.RateLimitByUser(5, 10), h.GetAll)
		attendances.GET("/summary", middleware.RateLimitByUser(5, 10), h.Summary)
		attendances.POST("/check-in", middleware.RateLimitByUser(1, 3), h.CheckIn)
		attendances.POST("/:id/check-out", middleware.RateLimitByUser(1, 3), h.CheckOut)
		attendances.PATCH("/:id", middleware.RateLimitByUser(1, 3), h.Update)
	}
}
