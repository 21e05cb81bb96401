package company

import (
	"context"
	"strings"
	"time"

	"go-thread/internal/attendance"
	companyerrors "go-thread/internal/company/errors"
	"go-thread/internal/domain"
	"go-thread/internal/leave"
	"go-thread/internal/rbac"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	"go-thread/internal/workforce"

	"go.uber.org/zap"
)

const noCheckIn = "--:--"

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	List(ctx context.Context) ([]CompanyResponse, error)
	GetMe(ctx context.Context, sess domain.Session) (CompanyResponse, error)
	UpdateMe(ctx context.Context, sess domain.Session, req UpdateCompanyRequest) (CompanyResponse, error)
	Dashboard(ctx context.Context, sess domain.Session) (DashboardResponse, error)
}

type service struct {
	store      *workforce.Store
	repo       Repository
	users      user.Repository
	attendance attendance.Repository
	leaves     leave.Repository
	rbac       rbac.Service
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	store *workforce.Store,
	repo Repository,
	users user.Repository,
	attendanceRepo attendance.Repository,
	leaveRepo leave.Repository,
	rbacService rbac.Service,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{
		store:      store,
		repo:       repo,
		users:      users,
		attendance: attendanceRepo,
		leaves:     leaveRepo,
		rbac:       rbacService,
		now:        time.Now,
		logger:     l,
	}
}

// List is the directory shown by the login company selector. It needs no
// session.
func (s *service) List(ctx context.Context) ([]CompanyResponse, error) {
	var out []CompanyResponse
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		out = s.repo.WithTx(tx).FindAll()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *service) GetMe(ctx context.Context, sess domain.Session) (CompanyResponse, error) {
	if sess.IsZero() {
		return CompanyResponse{}, apperror.ErrUnauthorized
	}

	var resp CompanyResponse
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		c, err := s.repo.WithTx(tx).FindByID(sess.CompanyID)
		if err != nil {
			return err
		}
		resp = mapToResponse(c, len(s.users.WithTx(tx).FindAllByCompany(c.ID)))
		return nil
	})
	if err != nil {
		return CompanyResponse{}, err
	}
	return resp, nil
}

// UpdateMe renames the caller's company or changes its logo. The company id
// is the slug taken at signup and does not change.
func (s *service) UpdateMe(ctx context.Context, sess domain.Session, req UpdateCompanyRequest) (CompanyResponse, error) {
	s.logger.Debug("update company requested",
		zap.String("company_id", sess.CompanyID),
		zap.String("actor_id", sess.UserID),
	)

	if sess.IsZero() {
		return CompanyResponse{}, apperror.ErrUnauthorized
	}
	ok, err := s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: rbac.ResourceCompany, Action: rbac.ActionUpdate})
	if err != nil {
		return CompanyResponse{}, err
	}
	if !ok {
		s.logger.Warn("update company denied", zap.String("actor_id", sess.UserID))
		return CompanyResponse{}, apperror.ErrForbidden
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return CompanyResponse{}, companyerrors.ErrCompanyNameRequired
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("update company begin tx failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	c, err := qtx.FindByID(sess.CompanyID)
	if err != nil {
		return CompanyResponse{}, err
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Logo != nil {
		c.Logo = *req.Logo
	}
	if err := qtx.Save(c); err != nil {
		s.logger.Error("update company persist failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	headCount := len(s.users.WithTx(tx).FindAllByCompany(c.ID))

	if err := tx.Commit(); err != nil {
		s.logger.Error("update company commit failed", zap.Error(err))
		return CompanyResponse{}, err
	}
	s.logger.Info("update company success", zap.String("company_id", c.ID), zap.String("name", c.Name))

	return mapToResponse(c, headCount), nil
}

func (s *service) Dashboard(ctx context.Context, sess domain.Session) (DashboardResponse, error) {
	if sess.IsZero() {
		return DashboardResponse{}, apperror.ErrUnauthorized
	}
	ok, err := s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: rbac.ResourceDashboard, Action: rbac.ActionRead})
	if err != nil {
		return DashboardResponse{}, err
	}
	if !ok {
		return DashboardResponse{}, apperror.ErrForbidden
	}

	resp := DashboardResponse{Role: sess.Role}
	err = s.store.Read(ctx, func(tx *workforce.Tx) error {
		c, err := s.repo.WithTx(tx).FindByID(sess.CompanyID)
		if err != nil {
			return err
		}
		members := s.users.WithTx(tx).FindAllByCompany(sess.CompanyID)
		resp.Company = mapToResponse(c, len(members))

		if sess.IsAdmin() {
			resp.Admin = s.adminStats(tx, sess, members)
		} else {
			resp.Employee = s.employeeStats(tx, sess)
		}
		return nil
	})
	if err != nil {
		return DashboardResponse{}, err
	}
	return resp, nil
}

func (s *service) adminStats(tx *workforce.Tx, sess domain.Session, members []domain.User) *AdminStats {
	stats := &AdminStats{TotalEmployees: len(members)}
	for _, u := range members {
		if u.Status == domain.PresencePresent {
			stats.PresentToday++
		}
		stats.PayrollTotal += u.Salary.TotalWage
	}
	stats.PendingLeaves = len(s.leaves.WithTx(tx).FindAllByCompany(sess.CompanyID, leave.Filter{Status: domain.LeavePending}))
	return stats
}

func (s *service) employeeStats(tx *workforce.Tx, sess domain.Session) *EmployeeStats {
	stats := &EmployeeStats{LastCheckIn: noCheckIn}

	month := s.now().Format("2006-01")
	records := s.attendance.WithTx(tx).FindAllByCompany(sess.CompanyID, attendance.Filter{UserID: sess.UserID})
	for _, r := range records {
		if strings.HasPrefix(r.Date, month) {
			stats.DaysPresent++
		}
	}
	if n := len(records); n > 0 && records[n-1].CheckIn != "" {
		stats.LastCheckIn = records[n-1].CheckIn
	}

	allowance, _ := leave.Allowance(domain.LeavePTO)
	used := 0
	approved := s.leaves.WithTx(tx).FindAllByCompany(sess.CompanyID, leave.Filter{UserID: sess.UserID, Status: domain.LeaveApproved})
	for _, l := range approved {
		if l.Type == domain.LeavePTO {
			used += leave.TotalDays(l)
		}
	}
	stats.LeavesRemaining = max(allowance-used, 0)
	return stats
}
