package payroll

import (
	"go-thread/internal/middleware"
	"go-thread/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc, rbacService rbac.Service) {
	payroll := r.Group("/payroll")
	payroll.Use(auth)
	{
		payroll.GET("/summary",
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollSummary, rbac.ActionRead),
			handler.Summary,
		)
		payroll.GET("/:userId", middleware.RateLimitByUser(5, 10), handler.GetPayroll)
		payroll.GET("/:userId/payslip.pdf", middleware.RateLimitByUser(1, 3), handler.DownloadPayslip)
	}
}
