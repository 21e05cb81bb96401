package leave

import (
	"go-thread/internal/middleware"
	"go-thread/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService rbac.Service) {
	leaves := r.Group("/leaves")
	leaves.Use(auth)
	{
		leaves.GET("", middleware.RateLimitByUser(5, 10), handler.GetAll)
		leaves.GET("/balances", middleware.RateLimitByUser(5, 10), handler.Balances)
		leaves.POST("", middleware.RateLimitByUser(1, 3), handler.Create)
		leaves.PATCH("/:id/status",
			middleware.RBACAuthorize(rbacService, rbac.ResourceLeave, rbac.ActionApprove),
			middleware.RateLimitByUser(1, 3),
			handler.UpdateStatus,
		)
	}
}
