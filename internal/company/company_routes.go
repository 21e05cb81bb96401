package company

import (
	"go-thread/internal/middleware"
	"go-thread/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService rbac.Service) {
	// The directory feeds the login screen, so it is public.
	r.GET("/companies", middleware.RateLimitByIP(2, 10), handler.List)

	company := r.Group("/companies")
	company.Use(auth)
	{
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)
		company.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionUpdate),
			handler.UpdateMe,
		)
	}

	dashboard := r.Group("/dashboard")
	dashboard.Use(auth)
	dashboard.GET("",
		middleware.RateLimitByUser(2, 10),
		middleware.RBACAuthorize(rbacService, rbac.ResourceDashboard, rbac.ActionRead),
		handler.Dashboard,
	)
}
