package app

import (
	"go-thread/internal/attendance"
	"go-thread/internal/auth"
	"go-thread/internal/company"
	"go-thread/internal/config"
	"go-thread/internal/leave"
	"go-thread/internal/middleware"
	"go-thread/internal/payroll"
	"go-thread/internal/rbac"
	"go-thread/internal/shared/token"
	"go-thread/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	svc *Services,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	authMW := middleware.AuthMiddleware(tokens)
	idempotency := middleware.Idempotency(rdb, logger.Named("idempotency"))

	// --- Handlers ---
	authHandler := auth.NewHandler(svc.Auth, tokens, cfg.IsProduction(), logger)
	userHandler := user.NewHandler(svc.User, logger)
	attendanceHandler := attendance.NewHandler(svc.Attendance, logger)
	leaveHandler := leave.NewHandler(svc.Leave, logger)
	payrollHandler := payroll.NewHandler(svc.Payroll, logger)
	companyHandler := company.NewHandler(svc.Company, logger)
	rbacHandler := rbac.NewHandler(svc.RBAC, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authMW, idempotency, rate.Limit(cfg.LoginRatePerSec), cfg.LoginBurst)
		user.RegisterRoutes(api, userHandler, authMW, idempotency)
		attendance.RegisterRoutes(api, attendanceHandler, authMW)
		leave.RegisterRoutes(api, leaveHandler, authMW, svc.RBAC)
		payroll.RegisterRoutes(api, payrollHandler, authMW, svc.RBAC)
		company.RegisterRoutes(api, companyHandler, authMW, svc.RBAC)
		rbac.RegisterRoutes(api, rbacHandler, authMW)
	}
}
