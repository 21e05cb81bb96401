package attendance

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	attendanceerrors "go-thread/internal/attendance/errors"
	"go-thread/internal/domain"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fallbackWorkHours and fallbackExtraHours apply when check-in or check-out
// times cannot be parsed.
const (
	fallbackWorkHours  = domain.StandardWorkHours
	fallbackExtraHours = 1.0
)

type Service interface {
	CheckIn(ctx context.Context, sess domain.Session, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, sess domain.Session, id string, req CheckOutRequest) (AttendanceResponse, error)
	Update(ctx context.Context, sess domain.Session, id string, req UpdateAttendanceRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, sess domain.Session, filter Filter) ([]AttendanceResponse, error)
	Summary(ctx context.Context, sess domain.Session) (SummaryResponse, error)
}

type service struct {
	store  *workforce.Store
	repo   Repository
	users  user.Repository
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store *workforce.Store, repo Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{store: store, repo: repo, users: users, now: time.Now, logger: l}
}

func validTime(v string) bool {
	_, err := time.Parse(domain.TimeLayout, strings.TrimSpace(v))
	return err == nil
}

func validHours(vs ...*float64) bool {
	for _, v := range vs {
		if v != nil && *v < 0 {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Hours splits the time between checkIn and checkOut into regular and extra
// hours around the standard working day. A check-out earlier than the
// check-in is taken to be on the next day.
func Hours(checkIn, checkOut string) (work, extra float64) {
	in, errIn := time.Parse(domain.TimeLayout, strings.TrimSpace(checkIn))
	out, errOut := time.Parse(domain.TimeLayout, strings.TrimSpace(checkOut))
	if errIn != nil || errOut != nil {
		return fallbackWorkHours, fallbackExtraHours
	}
	if out.Before(in) {
		out = out.Add(24 * time.Hour)
	}
	elapsed := out.Sub(in).Hours()
	work = math.Min(elapsed, domain.StandardWorkHours)
	extra = math.Max(elapsed-domain.StandardWorkHours, 0)
	return round2(work), round2(extra)
}

func (s *service) CheckIn(ctx context.Context, sess domain.Session, req CheckInRequest) (AttendanceResponse, error) {
	s.logger.Debug("check in requested",
		zap.String("user_id", sess.UserID),
		zap.String("company_id", sess.CompanyID),
	)

	if sess.IsZero() {
		return AttendanceResponse{}, attendanceerrors.ErrNotSignedIn
	}

	now := s.now()
	date := now.Format(domain.DateLayout)
	if req.Date != nil && strings.TrimSpace(*req.Date) != "" {
		date = strings.TrimSpace(*req.Date)
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			s.logger.Warn("check in invalid date", zap.String("date", date))
			return AttendanceResponse{}, attendanceerrors.ErrInvalidDate
		}
	}
	checkIn := now.Format(domain.TimeLayout)
	if req.CheckIn != nil && strings.TrimSpace(*req.CheckIn) != "" {
		checkIn = strings.TrimSpace(*req.CheckIn)
		if !validTime(checkIn) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidTime
		}
	}
	if !validHours(req.WorkHours, req.ExtraHours) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidHours
	}
	if req.Status != nil && !req.Status.Valid() {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("check in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	utx := s.users.WithTx(tx)

	u, err := utx.FindByID(sess.UserID)
	if errors.Is(err, usererrors.ErrUserNotFound) {
		return AttendanceResponse{}, attendanceerrors.ErrNotSignedIn
	}
	if err != nil {
		return AttendanceResponse{}, err
	}
	if _, exists := qtx.FindByUserAndDate(u.ID, date); exists {
		s.logger.Warn("check in duplicate", zap.String("user_id", u.ID), zap.String("date", date))
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	rec := domain.AttendanceRecord{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		UserName:  u.Name,
		CompanyID: u.CompanyID,
		Date:      date,
		CheckIn:   checkIn,
		Status:    domain.PresencePresent,
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.WorkHours != nil {
		rec.WorkHours = *req.WorkHours
	}
	if req.ExtraHours != nil {
		rec.ExtraHours = *req.ExtraHours
	}

	if err := qtx.Save(rec); err != nil {
		s.logger.Error("check in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	u.Status = domain.PresencePresent
	if err := utx.Save(u); err != nil {
		s.logger.Error("check in update presence failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("check in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("check in success",
		zap.String("record_id", rec.ID),
		zap.String("user_id", rec.UserID),
		zap.String("date", rec.Date),
	)

	return ToResponse(rec), nil
}

// loadForWrite returns the record if sess may change it. Employees may only
// change their own records.
func (s *service) loadForWrite(qtx Repository, sess domain.Session, id string) (domain.AttendanceRecord, error) {
	if sess.IsZero() {
		return domain.AttendanceRecord{}, apperror.ErrForbidden
	}
	rec, err := qtx.FindByID(id)
	if err != nil {
		return domain.AttendanceRecord{}, err
	}
	if !sess.SameCompany(rec.CompanyID) {
		s.logger.Warn("attendance write outside company",
			zap.String("record_id", id),
			zap.String("actor_id", sess.UserID),
		)
		return domain.AttendanceRecord{}, apperror.ErrForbidden
	}
	if !sess.IsAdmin() && rec.UserID != sess.UserID {
		s.logger.Warn("attendance write on colleague record",
			zap.String("record_id", id),
			zap.String("actor_id", sess.UserID),
		)
		return domain.AttendanceRecord{}, apperror.ErrForbidden
	}
	return rec, nil
}

func (s *service) CheckOut(ctx context.Context, sess domain.Session, id string, req CheckOutRequest) (AttendanceResponse, error) {
	s.logger.Debug("check out requested", zap.String("record_id", id), zap.String("actor_id", sess.UserID))

	checkOut := s.now().Format(domain.TimeLayout)
	if req.CheckOut != nil && strings.TrimSpace(*req.CheckOut) != "" {
		checkOut = strings.TrimSpace(*req.CheckOut)
		if !validTime(checkOut) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidTime
		}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("check out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := s.loadForWrite(qtx, sess, id)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if rec.CheckedOut() {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	rec.CheckOut = checkOut
	rec.WorkHours, rec.ExtraHours = Hours(rec.CheckIn, rec.CheckOut)

	if err := qtx.Save(rec); err != nil {
		s.logger.Error("check out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("check out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("check out success",
		zap.String("record_id", rec.ID),
		zap.Float64("work_hours", rec.WorkHours),
		zap.Float64("extra_hours", rec.ExtraHours),
	)

	return ToResponse(rec), nil
}

func (s *service) Update(ctx context.Context, sess domain.Session, id string, req UpdateAttendanceRequest) (AttendanceResponse, error) {
	s.logger.Debug("update attendance requested", zap.String("record_id", id), zap.String("actor_id", sess.UserID))

	for _, v := range []*string{req.CheckIn, req.CheckOut} {
		if v != nil && *v != "" && !validTime(*v) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidTime
		}
	}
	if !validHours(req.WorkHours, req.ExtraHours) {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidHours
	}
	if req.Status != nil && !req.Status.Valid() {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidStatus
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("update attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	rec, err := s.loadForWrite(qtx, sess, id)
	if err != nil {
		return AttendanceResponse{}, err
	}

	if req.CheckIn != nil {
		rec.CheckIn = strings.TrimSpace(*req.CheckIn)
	}
	if req.CheckOut != nil {
		rec.CheckOut = strings.TrimSpace(*req.CheckOut)
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.WorkHours != nil {
		rec.WorkHours = *req.WorkHours
	}
	if req.ExtraHours != nil {
		rec.ExtraHours = *req.ExtraHours
	}

	if err := qtx.Save(rec); err != nil {
		s.logger.Error("update attendance persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("update attendance success", zap.String("record_id", rec.ID))

	return ToResponse(rec), nil
}

// GetAll lists company records. Employees only ever see their own.
func (s *service) GetAll(ctx context.Context, sess domain.Session, filter Filter) ([]AttendanceResponse, error) {
	if sess.IsZero() {
		return []AttendanceResponse{}, nil
	}
	if !sess.IsAdmin() {
		filter.UserID = sess.UserID
	}

	resp := []AttendanceResponse{}
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		for _, rec := range s.repo.WithTx(tx).FindAllByCompany(sess.CompanyID, filter) {
			resp = append(resp, ToResponse(rec))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) Summary(ctx context.Context, sess domain.Session) (SummaryResponse, error) {
	if sess.IsZero() {
		return SummaryResponse{}, attendanceerrors.ErrNotSignedIn
	}

	filter := Filter{}
	if !sess.IsAdmin() {
		filter.UserID = sess.UserID
	}

	summary := SummaryResponse{Date: s.now().Format(domain.DateLayout), Users: []UserSummary{}}
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		for _, u := range s.users.WithTx(tx).FindAllByCompany(sess.CompanyID) {
			if u.Status == domain.PresencePresent {
				summary.PresentToday++
			}
		}

		index := map[string]int{}
		for _, rec := range s.repo.WithTx(tx).FindAllByCompany(sess.CompanyID, filter) {
			i, ok := index[rec.UserID]
			if !ok {
				i = len(summary.Users)
				index[rec.UserID] = i
				summary.Users = append(summary.Users, UserSummary{UserID: rec.UserID, UserName: rec.UserName})
			}
			us := &summary.Users[i]
			switch rec.Status {
			case domain.PresencePresent:
				us.Present++
				summary.Present++
			case domain.PresenceLeave:
				us.Leave++
				summary.Leave++
			case domain.PresenceAbsent:
				us.Absent++
				summary.Absent++
			}
			us.WorkHours = round2(us.WorkHours + rec.WorkHours)
			us.ExtraHours = round2(us.ExtraHours + rec.ExtraHours)
			summary.WorkHours = round2(summary.WorkHours + rec.WorkHours)
			summary.ExtraHours = round2(summary.ExtraHours + rec.ExtraHours)
		}
		return nil
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return summary, nil
}
