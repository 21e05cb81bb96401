package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-thread/internal/domain"
	"go-thread/internal/events"
	leaveerrors "go-thread/internal/leave/errors"
	"go-thread/internal/messaging/kafka"
	"go-thread/internal/rbac"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Yearly allowances in days. Types missing here are unlimited.
var allowances = map[domain.LeaveType]int{
	domain.LeavePTO:  24,
	domain.LeaveSick: 10,
}

var leaveTypes = []domain.LeaveType{domain.LeavePTO, domain.LeaveSick, domain.LeaveUnpaid}

// Allowance returns the yearly allowance of t. ok is false for unlimited
// types.
func Allowance(t domain.LeaveType) (days int, ok bool) {
	days, ok = allowances[t]
	return days, ok
}

type Service interface {
	Submit(ctx context.Context, sess domain.Session, req SubmitLeaveRequest) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, sess domain.Session, id string, req UpdateStatusRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, sess domain.Session, filter Filter) ([]LeaveResponse, error)
	Balances(ctx context.Context, sess domain.Session, userID string) ([]BalanceResponse, error)
}

type service struct {
	store  *workforce.Store
	repo   Repository
	users  user.Repository
	rbac   rbac.Service
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(store *workforce.Store, repo Repository, users user.Repository, rbacService rbac.Service, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(store, repo, users, rbacService, nil, logger...)
}

// NewServiceWithOutbox also stages a leave.decided event for every decision.
func NewServiceWithOutbox(
	store *workforce.Store,
	repo Repository,
	users user.Repository,
	rbacService rbac.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{store: store, repo: repo, users: users, rbac: rbacService, outbox: outbox, logger: l}
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// TotalDays counts calendar days in the inclusive range, or 0 when the dates
// are unparseable.
func TotalDays(l domain.LeaveRequest) int {
	start, err := parseDate(l.StartDate)
	if err != nil {
		return 0
	}
	end, err := parseDate(l.EndDate)
	if err != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *service) Submit(ctx context.Context, sess domain.Session, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("user_id", sess.UserID),
		zap.String("company_id", sess.CompanyID),
		zap.String("type", string(req.Type)),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if sess.IsZero() {
		return LeaveResponse{}, leaveerrors.ErrNotSignedIn
	}
	leaveType, err := domain.ParseLeaveType(string(req.Type))
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if endDate.Before(startDate) {
		s.logger.Warn("submit leave invalid range",
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	start := startDate.Format(domain.DateLayout)
	end := endDate.Format(domain.DateLayout)

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := s.users.WithTx(tx).FindByID(sess.UserID)
	if errors.Is(err, usererrors.ErrUserNotFound) {
		return LeaveResponse{}, leaveerrors.ErrNotSignedIn
	}
	if err != nil {
		return LeaveResponse{}, err
	}
	if qtx.HasOverlappingPeriod(u.ID, start, end) {
		s.logger.Warn("submit leave overlap",
			zap.String("user_id", u.ID),
			zap.String("start_date", start),
			zap.String("end_date", end),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := domain.LeaveRequest{
		ID:         uuid.NewString(),
		UserID:     u.ID,
		UserName:   u.Name,
		CompanyID:  u.CompanyID,
		Type:       leaveType,
		StartDate:  start,
		EndDate:    end,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     domain.LeavePending,
		Attachment: req.Attachment,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := qtx.Save(l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID),
		zap.String("user_id", l.UserID),
	)

	return ToResponse(l), nil
}

func isAllowedStatusTransition(current, target domain.LeaveStatus) bool {
	return current == domain.LeavePending && target.Decided()
}

func (s *service) UpdateStatus(ctx context.Context, sess domain.Session, id string, req UpdateStatusRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave status requested",
		zap.String("leave_id", id),
		zap.String("company_id", sess.CompanyID),
		zap.String("actor_id", sess.UserID),
		zap.String("target_status", string(req.Status)),
	)

	if sess.IsZero() {
		return LeaveResponse{}, apperror.ErrForbidden
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("update leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !sess.SameCompany(l.CompanyID) {
		s.logger.Warn("update leave status outside company", zap.String("leave_id", id))
		return LeaveResponse{}, apperror.ErrForbidden
	}
	ok, err := s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: rbac.ResourceLeave, Action: rbac.ActionApprove})
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		s.logger.Warn("update leave status denied", zap.String("actor_id", sess.UserID), zap.String("role", string(sess.Role)))
		return LeaveResponse{}, apperror.ErrForbidden
	}
	if !isAllowedStatusTransition(l.Status, req.Status) {
		s.logger.Warn("update leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", string(l.Status)),
			zap.String("to_status", string(req.Status)),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	l.Status = req.Status
	l.AdminRemarks = strings.TrimSpace(req.Remarks)
	if err := qtx.Save(l); err != nil {
		s.logger.Error("update leave status persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if l.Status == domain.LeaveApproved {
		utx := s.users.WithTx(tx)
		requester, err := utx.FindByID(l.UserID)
		switch {
		case errors.Is(err, usererrors.ErrUserNotFound):
			s.logger.Warn("update leave status requester missing", zap.String("user_id", l.UserID))
		case err != nil:
			return LeaveResponse{}, err
		default:
			requester.Status = domain.PresenceLeave
			if err := utx.Save(requester); err != nil {
				s.logger.Error("update leave status presence failed", zap.String("user_id", l.UserID), zap.Error(err))
				return LeaveResponse{}, err
			}
		}
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(ctx, events.LeaveDecisionTopic, events.LeaveDecidedType, "leave", l.ID, events.LeaveDecidedEvent{
			EventType:  events.LeaveDecidedType,
			LeaveID:    l.ID,
			UserID:     l.UserID,
			CompanyID:  l.CompanyID,
			Status:     string(l.Status),
			DecidedBy:  sess.UserID,
			Remarks:    l.AdminRemarks,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			return LeaveResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("update leave status stage event failed", zap.Error(err))
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave status commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave status success",
		zap.String("leave_id", id),
		zap.String("status", string(l.Status)),
	)

	return ToResponse(l), nil
}

// GetAll lists company requests. Employees only ever see their own.
func (s *service) GetAll(ctx context.Context, sess domain.Session, filter Filter) ([]LeaveResponse, error) {
	if sess.IsZero() {
		return []LeaveResponse{}, nil
	}
	if !sess.IsAdmin() {
		filter.UserID = sess.UserID
	}

	resp := []LeaveResponse{}
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		for _, l := range s.repo.WithTx(tx).FindAllByCompany(sess.CompanyID, filter) {
			resp = append(resp, ToResponse(l))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Balances reports usage per leave type for userID, or for the caller when
// userID is empty. Only admins may look at a colleague.
func (s *service) Balances(ctx context.Context, sess domain.Session, userID string) ([]BalanceResponse, error) {
	if sess.IsZero() {
		return nil, leaveerrors.ErrNotSignedIn
	}
	if userID == "" {
		userID = sess.UserID
	}
	if userID != sess.UserID && !sess.IsAdmin() {
		return nil, apperror.ErrForbidden
	}

	used := map[domain.LeaveType]int{}
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		u, err := s.users.WithTx(tx).FindByID(userID)
		if err != nil {
			return err
		}
		if !sess.SameCompany(u.CompanyID) {
			return apperror.ErrForbidden
		}
		filter := Filter{UserID: userID, Status: domain.LeaveApproved}
		for _, l := range s.repo.WithTx(tx).FindAllByCompany(sess.CompanyID, filter) {
			used[l.Type] += TotalDays(l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]BalanceResponse, 0, len(leaveTypes))
	for _, t := range leaveTypes {
		b := BalanceResponse{Type: t, Label: t.Label(), Used: used[t]}
		if total, ok := Allowance(t); ok {
			remaining := max(total-b.Used, 0)
			b.Total, b.Remaining = &total, &remaining
		}
		out = append(out, b)
	}
	return out, nil
}
