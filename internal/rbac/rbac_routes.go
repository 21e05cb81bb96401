package rbac

import (
	"go-thread/internal/domain"
	"go-thread/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the policy inspection endpoints. auth must populate
// the caller's role. Probing arbitrary requests is for admins only.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/enforce", middleware.RoleMiddleware(domain.RoleAdmin), handler.Enforce)
	}
}
