package app

import (
	"go-thread/internal/attendance"
	"go-thread/internal/auth"
	"go-thread/internal/company"
	"go-thread/internal/config"
	"go-thread/internal/leave"
	"go-thread/internal/messaging/kafka"
	"go-thread/internal/payroll"
	"go-thread/internal/rbac"
	"go-thread/internal/rbac/infra"
	"go-thread/internal/shared/password"
	"go-thread/internal/storage"
	"go-thread/internal/user"
	"go-thread/internal/workforce"

	"go.uber.org/zap"
)

// Services is the set of feature services shared by the HTTP API and the
// CLI.
type Services struct {
	RBAC       rbac.Service
	Auth       auth.Service
	User       user.Service
	Attendance attendance.Service
	Leave      leave.Service
	Payroll    payroll.Service
	Company    company.Service
}

// NewServices wires every feature service on top of store. Domain events are
// staged in the outbox only when a Kafka broker is configured.
func NewServices(cfg config.Config, store *workforce.Store, kv storage.Store, logger *zap.Logger) (*Services, error) {
	enforcer, err := infra.NewEnforcer(rbac.DefaultPolicies())
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(enforcer, logger)
	hasher := password.NewHasher(cfg.PasswordCost)

	// --- Repositories ---
	userRepo := user.NewRepository()
	attendanceRepo := attendance.NewRepository()
	leaveRepo := leave.NewRepository()
	companyRepo := company.NewRepository()

	var outboxRepo kafka.OutboxRepository
	if cfg.KafkaBroker != "" {
		outboxRepo = kafka.NewOutboxRepository(kv)
	}

	return &Services{
		RBAC:       rbacService,
		Auth:       auth.NewService(store, userRepo, hasher, logger),
		User:       user.NewServiceWithOutbox(store, userRepo, rbacService, hasher, outboxRepo, logger),
		Attendance: attendance.NewService(store, attendanceRepo, userRepo, logger),
		Leave:      leave.NewServiceWithOutbox(store, leaveRepo, userRepo, rbacService, outboxRepo, logger),
		Payroll:    payroll.NewService(store, userRepo, rbacService, logger),
		Company:    company.NewService(store, companyRepo, userRepo, attendanceRepo, leaveRepo, rbacService, logger),
	}, nil
}
