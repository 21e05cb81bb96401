package payroll

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-thread/internal/domain"
	payrollerrors "go-thread/internal/payroll/errors"
	"go-thread/internal/rbac"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"

	"go.uber.org/zap"
)

const periodLayout = "2006-01"

type Service interface {
	GetPayroll(ctx context.Context, sess domain.Session, userID string) (PayrollResponse, error)
	Payslip(ctx context.Context, sess domain.Session, userID, period string) ([]byte, error)
	Summary(ctx context.Context, sess domain.Session) (SummaryResponse, error)
}

type service struct {
	store  *workforce.Store
	users  user.Repository
	rbac   rbac.Service
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store *workforce.Store, users user.Repository, rbacService rbac.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{store: store, users: users, rbac: rbacService, now: time.Now, logger: l}
}

// load returns userID's record if sess may read its salary. Admins read
// their colleagues; employees read only themselves.
func (s *service) load(ctx context.Context, sess domain.Session, userID string) (domain.User, error) {
	if sess.IsZero() {
		return domain.User{}, apperror.ErrUnauthorized
	}
	if userID == "" {
		userID = sess.UserID
	}

	var u domain.User
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		var err error
		u, err = s.users.WithTx(tx).FindByID(userID)
		return err
	})
	if errors.Is(err, usererrors.ErrUserNotFound) {
		return domain.User{}, payrollerrors.ErrEmployeeNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	if !sess.SameCompany(u.CompanyID) {
		return domain.User{}, apperror.ErrForbidden
	}

	action := rbac.TargetAction(sess.UserID, u.ID)
	ok, err := s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: rbac.ResourcePayroll, Action: action})
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		s.logger.Warn("payroll read denied",
			zap.String("actor_id", sess.UserID),
			zap.String("target_id", u.ID),
			zap.String("action", action),
		)
		return domain.User{}, payrollerrors.ErrPayrollForbidden
	}
	return u, nil
}

func (s *service) GetPayroll(ctx context.Context, sess domain.Session, userID string) (PayrollResponse, error) {
	s.logger.Debug("get payroll requested", zap.String("actor_id", sess.UserID), zap.String("target_id", userID))

	u, err := s.load(ctx, sess, userID)
	if err != nil {
		return PayrollResponse{}, err
	}
	return toResponse(u), nil
}

// Payslip renders a one page PDF for period (YYYY-MM). An empty period means
// the current month.
func (s *service) Payslip(ctx context.Context, sess domain.Session, userID, period string) ([]byte, error) {
	s.logger.Debug("payslip requested",
		zap.String("actor_id", sess.UserID),
		zap.String("target_id", userID),
		zap.String("period", period),
	)

	period = strings.TrimSpace(period)
	if period == "" {
		period = s.now().Format(periodLayout)
	}
	p, err := time.Parse(periodLayout, period)
	if err != nil {
		return nil, payrollerrors.ErrInvalidPeriod
	}

	u, err := s.load(ctx, sess, userID)
	if err != nil {
		return nil, err
	}

	pdf, err := buildSimplePayslipPDF(payslipLines(toResponse(u), p.Format("January 2006")))
	if err != nil {
		s.logger.Error("payslip render failed", zap.String("target_id", u.ID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("payslip rendered",
		zap.String("target_id", u.ID),
		zap.String("period", period),
		zap.Int("bytes", len(pdf)),
	)
	return pdf, nil
}

func (s *service) Summary(ctx context.Context, sess domain.Session) (SummaryResponse, error) {
	if sess.IsZero() {
		return SummaryResponse{}, apperror.ErrUnauthorized
	}
	ok, err := s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: rbac.ResourcePayrollSummary, Action: rbac.ActionRead})
	if err != nil {
		return SummaryResponse{}, err
	}
	if !ok {
		return SummaryResponse{}, payrollerrors.ErrPayrollForbidden
	}

	summary := SummaryResponse{CompanyID: sess.CompanyID}
	err = s.store.Read(ctx, func(tx *workforce.Tx) error {
		for _, u := range s.users.WithTx(tx).FindAllByCompany(sess.CompanyID) {
			summary.HeadCount++
			summary.WagePool += u.Salary.TotalWage
			summary.NetPayTotal += u.Salary.NetPay()
		}
		return nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return summary, nil
}
