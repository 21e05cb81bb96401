package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-thread/internal/domain"
	"go-thread/internal/events"
	"go-thread/internal/messaging/kafka"
	"go-thread/internal/rbac"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/password"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	newEmployeeDesignation    = "Associate Consultant"
	newEmployeeDepartment     = "Operations"
	newEmployeeEmploymentType = "Full-time"
	newEmployeeLocation       = "On-site"
	newEmployeeAbout          = "Enthusiastic team player focused on delivering value."
)

//go:generate mockgen -destination=mock/user_service_mock.go -package=mock . Service
type Service interface {
	GetAll(ctx context.Context, sess domain.Session, query string) ([]UserResponse, error)
	GetByID(ctx context.Context, sess domain.Session, id string) (UserResponse, error)
	AddEmployee(ctx context.Context, sess domain.Session, req AddEmployeeRequest) (AddEmployeeResponse, error)
	UpdateUser(ctx context.Context, sess domain.Session, id string, req UpdateUserRequest) (UserResponse, error)
}

type service struct {
	store  *workforce.Store
	repo   Repository
	rbac   rbac.Service
	hasher *password.Hasher
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(store *workforce.Store, repo Repository, rbacService rbac.Service, hasher *password.Hasher, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(store, repo, rbacService, hasher, nil, logger...)
}

// NewServiceWithOutbox also stages an employee.added event for every new
// employee.
func NewServiceWithOutbox(
	store *workforce.Store,
	repo Repository,
	rbacService rbac.Service,
	hasher *password.Hasher,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{store: store, repo: repo, rbac: rbacService, hasher: hasher, outbox: outbox, logger: l}
}

func (s *service) allowed(sess domain.Session, resource, action string) (bool, error) {
	return s.rbac.Enforce(domain.EnforceRequest{Role: sess.Role, Resource: resource, Action: action})
}

// salaryVisibility reports whether sess may see its own and its colleagues'
// salaries.
func (s *service) salaryVisibility(sess domain.Session) (self, other bool, err error) {
	if self, err = s.allowed(sess, rbac.ResourcePayroll, rbac.ActionSelf); err != nil {
		return false, false, err
	}
	if other, err = s.allowed(sess, rbac.ResourcePayroll, rbac.ActionOther); err != nil {
		return false, false, err
	}
	return self, other, nil
}

func matchesQuery(u domain.User, q string) bool {
	if q == "" {
		return true
	}
	for _, v := range []string{u.Name, u.Email, u.EmployeeID, u.Designation, u.Department} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

func (s *service) GetAll(ctx context.Context, sess domain.Session, query string) ([]UserResponse, error) {
	if sess.IsZero() {
		return []UserResponse{}, nil
	}
	self, other, err := s.salaryVisibility(sess)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	resp := []UserResponse{}
	err = s.store.Read(ctx, func(tx *workforce.Tx) error {
		for _, u := range s.repo.WithTx(tx).FindAllByCompany(sess.CompanyID) {
			if !matchesQuery(u, q) {
				continue
			}
			withSalary := other
			if u.ID == sess.UserID {
				withSalary = self
			}
			resp = append(resp, ToResponse(u, withSalary))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, sess domain.Session, id string) (UserResponse, error) {
	if sess.IsZero() {
		return UserResponse{}, apperror.ErrUnauthorized
	}

	var u domain.User
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		var err error
		u, err = s.repo.WithTx(tx).FindByID(id)
		return err
	})
	if err != nil {
		return UserResponse{}, err
	}
	if !sess.SameCompany(u.CompanyID) {
		return UserResponse{}, apperror.ErrForbidden
	}

	withSalary, err := s.allowed(sess, rbac.ResourcePayroll, rbac.TargetAction(sess.UserID, u.ID))
	if err != nil {
		return UserResponse{}, err
	}
	return ToResponse(u, withSalary), nil
}

func (s *service) AddEmployee(ctx context.Context, sess domain.Session, req AddEmployeeRequest) (AddEmployeeResponse, error) {
	s.logger.Debug("add employee requested",
		zap.String("company_id", sess.CompanyID),
		zap.String("actor_id", sess.UserID),
		zap.String("email", req.Email),
	)

	if sess.IsZero() {
		return AddEmployeeResponse{}, usererrors.ErrUnauthorized
	}
	ok, err := s.allowed(sess, rbac.ResourceEmployee, rbac.ActionCreate)
	if err != nil {
		return AddEmployeeResponse{}, err
	}
	if !ok {
		s.logger.Warn("add employee denied", zap.String("actor_id", sess.UserID), zap.String("role", string(sess.Role)))
		return AddEmployeeResponse{}, usererrors.ErrUnauthorized
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.HasSuffix(email, domain.EmployeeEmailDomain) {
		s.logger.Warn("add employee invalid domain", zap.String("email", email))
		return AddEmployeeResponse{}, usererrors.ErrEmployeeDomain
	}

	year := req.YearOfJoining
	if year == 0 {
		year = time.Now().Year()
	}
	if year < 1900 || year > 9999 {
		return AddEmployeeResponse{}, usererrors.ErrInvalidYear
	}
	total := domain.DefaultTotalWage
	if req.TotalWage != nil && *req.TotalWage != 0 {
		total = *req.TotalWage
	}
	if total < 0 {
		return AddEmployeeResponse{}, usererrors.ErrInvalidAmount
	}

	tempPassword, err := password.Temporary()
	if err != nil {
		s.logger.Error("add employee temporary password failed", zap.Error(err))
		return AddEmployeeResponse{}, err
	}
	hashed, err := s.hasher.Hash(tempPassword)
	if err != nil {
		s.logger.Error("add employee hash password failed", zap.Error(err))
		return AddEmployeeResponse{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("add employee begin tx failed", zap.Error(err))
		return AddEmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	admin, err := qtx.FindByID(sess.UserID)
	if err != nil || !admin.IsAdmin() || admin.CompanyID != sess.CompanyID {
		return AddEmployeeResponse{}, usererrors.ErrUnauthorized
	}
	if _, exists := qtx.FindByEmail(email); exists {
		s.logger.Warn("add employee duplicate email", zap.String("email", email))
		return AddEmployeeResponse{}, usererrors.ErrDuplicateEmail
	}
	if !domain.ValidPhone(req.Phone) {
		s.logger.Warn("add employee invalid phone")
		return AddEmployeeResponse{}, usererrors.ErrPhoneInvalid
	}

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	colleagues := qtx.FindAllByCompany(admin.CompanyID)

	u := domain.User{
		ID:             uuid.NewString(),
		EmployeeID:     NextEmployeeID(admin.CompanyName, firstName, lastName, year, colleagues),
		CompanyID:      admin.CompanyID,
		CompanyName:    admin.CompanyName,
		CompanyLogo:    admin.CompanyLogo,
		Name:           firstName + " " + lastName,
		Email:          email,
		Phone:          req.Phone,
		Role:           domain.RoleEmployee,
		Salary:         domain.DeriveSalary(total, domain.WageMonthly),
		JoiningYear:    year,
		Status:         domain.PresenceAbsent,
		Password:       hashed,
		IsFirstLogin:   true,
		Designation:    newEmployeeDesignation,
		Department:     newEmployeeDepartment,
		Manager:        admin.Name,
		EmploymentType: newEmployeeEmploymentType,
		Location:       newEmployeeLocation,
		About:          newEmployeeAbout,
	}

	if err := qtx.Save(u); err != nil {
		s.logger.Error("add employee persist failed", zap.Error(err))
		return AddEmployeeResponse{}, err
	}

	if s.outbox != nil {
		event, err := kafka.NewOutboxEvent(ctx, events.EmployeeLifecycleTopic, events.EmployeeAddedType, "user", u.ID, events.EmployeeAddedEvent{
			EventType:    events.EmployeeAddedType,
			UserID:       u.ID,
			EmployeeCode: u.EmployeeID,
			CompanyID:    u.CompanyID,
			Email:        u.Email,
			AddedBy:      sess.UserID,
			OccurredAt:   time.Now().UTC(),
		})
		if err != nil {
			return AddEmployeeResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("add employee stage event failed", zap.Error(err))
			return AddEmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add employee commit failed", zap.Error(err))
		return AddEmployeeResponse{}, err
	}
	s.logger.Info("add employee success",
		zap.String("user_id", u.ID),
		zap.String("employee_id", u.EmployeeID),
		zap.String("company_id", u.CompanyID),
	)

	return AddEmployeeResponse{User: ToResponse(u, true), TemporaryPassword: tempPassword}, nil
}

func (req UpdateUserRequest) groups() []rbac.FieldGroup {
	var gs []rbac.FieldGroup
	if req.Phone != nil || req.Address != nil || req.ProfilePhoto != nil || req.About != nil {
		gs = append(gs, rbac.FieldGroupContact)
	}
	if req.Name != nil || req.Designation != nil || req.Department != nil || req.Manager != nil ||
		req.EmploymentType != nil || req.Location != nil || req.JoiningYear != nil || req.Status != nil {
		gs = append(gs, rbac.FieldGroupWork)
	}
	if req.Salary != nil {
		gs = append(gs, rbac.FieldGroupSalary)
	}
	return gs
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func applySalary(cur domain.SalaryInfo, upd SalaryUpdate) (domain.SalaryInfo, error) {
	for _, a := range []*domain.Amount{upd.TotalWage, upd.ExtraWages, upd.Deductions} {
		if a != nil && *a < 0 {
			return cur, usererrors.ErrInvalidAmount
		}
	}
	setIf(&cur.WageType, upd.WageType)
	if upd.TotalWage != nil {
		cur = cur.WithTotal(*upd.TotalWage)
	}
	setIf(&cur.ExtraWages, upd.ExtraWages)
	setIf(&cur.Deductions, upd.Deductions)
	return cur, nil
}

func (s *service) UpdateUser(ctx context.Context, sess domain.Session, id string, req UpdateUserRequest) (UserResponse, error) {
	s.logger.Debug("update user requested",
		zap.String("target_id", id),
		zap.String("actor_id", sess.UserID),
		zap.String("company_id", sess.CompanyID),
	)

	if sess.IsZero() {
		return UserResponse{}, usererrors.ErrUpdateForbidden
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("update user begin tx failed", zap.Error(err))
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	target, err := qtx.FindByID(id)
	if errors.Is(err, usererrors.ErrUserNotFound) || (err == nil && !sess.SameCompany(target.CompanyID)) {
		s.logger.Warn("update user outside company", zap.String("target_id", id))
		return UserResponse{}, usererrors.ErrUpdateForbidden
	}
	if err != nil {
		return UserResponse{}, err
	}

	groups := req.groups()
	if len(groups) == 0 {
		return UserResponse{}, usererrors.ErrEmptyUpdate
	}
	action := rbac.TargetAction(sess.UserID, target.ID)
	for _, g := range groups {
		if g == rbac.FieldGroupSalary && sess.IsAdmin() && action == rbac.ActionSelf {
			s.logger.Warn("update user own salary denied", zap.String("actor_id", sess.UserID))
			return UserResponse{}, usererrors.ErrOwnSalary
		}
		ok, err := s.allowed(sess, rbac.ProfileResource(g), action)
		if err != nil {
			return UserResponse{}, err
		}
		if !ok {
			s.logger.Warn("update user fields denied",
				zap.String("actor_id", sess.UserID),
				zap.String("field_group", string(g)),
			)
			return UserResponse{}, usererrors.ErrFieldsForbidden
		}
	}

	if req.Phone != nil && !domain.ValidPhone(*req.Phone) {
		return UserResponse{}, usererrors.ErrPhoneInvalid
	}
	if req.Status != nil && !req.Status.Valid() {
		return UserResponse{}, apperror.InvalidField("Status")
	}
	if req.JoiningYear != nil && (*req.JoiningYear < 1900 || *req.JoiningYear > 9999) {
		return UserResponse{}, usererrors.ErrInvalidYear
	}

	setIf(&target.Phone, req.Phone)
	setIf(&target.Address, req.Address)
	setIf(&target.ProfilePhoto, req.ProfilePhoto)
	setIf(&target.About, req.About)
	setIf(&target.Name, req.Name)
	setIf(&target.Designation, req.Designation)
	setIf(&target.Department, req.Department)
	setIf(&target.Manager, req.Manager)
	setIf(&target.EmploymentType, req.EmploymentType)
	setIf(&target.Location, req.Location)
	setIf(&target.JoiningYear, req.JoiningYear)
	setIf(&target.Status, req.Status)
	if req.Salary != nil {
		if target.Salary, err = applySalary(target.Salary, *req.Salary); err != nil {
			return UserResponse{}, err
		}
	}

	if err := qtx.Save(target); err != nil {
		s.logger.Error("update user persist failed", zap.String("target_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update user commit failed", zap.String("target_id", id), zap.Error(err))
		return UserResponse{}, err
	}
	s.logger.Info("update user success", zap.String("target_id", id))

	withSalary, err := s.allowed(sess, rbac.ResourcePayroll, action)
	if err != nil {
		return UserResponse{}, err
	}
	return ToResponse(target, withSalary), nil
}
