package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "go-thread/internal/auth/errors"
	"go-thread/internal/domain"
	"go-thread/internal/shared/password"
	"go-thread/internal/user"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultEmploymentType = "Full-time"
	defaultLocation       = "Remote"
	defaultAbout          = "Strategic professional committed to excellence and driving organizational growth."
)

//go:generate mockgen -destination=mock/auth_service_mock.go -package=mock . Service
type Service interface {
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)
	Signup(ctx context.Context, req SignupRequest) (AuthResponse, error)
	ChangePassword(ctx context.Context, sess domain.Session, req ChangePasswordRequest) error
	Me(ctx context.Context, sess domain.Session) (AuthResponse, error)
	Logout(ctx context.Context, sess domain.Session) error
	// CurrentSession returns the session of the signed-in user recorded by
	// the store.
	CurrentSession(ctx context.Context) (domain.Session, bool)
}

type service struct {
	store  *workforce.Store
	users  user.Repository
	hasher *password.Hasher
	now    func() time.Time
	logger *zap.Logger
}

func NewService(store *workforce.Store, users user.Repository, hasher *password.Hasher, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{store: store, users: users, hasher: hasher, now: time.Now, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	s.logger.Debug("login requested", zap.String("company_id", req.CompanyID))

	var u domain.User
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		found, ok := s.users.WithTx(tx).FindByIdentifier(req.Identifier)
		if !ok {
			return autherrors.ErrUserNotFound
		}
		u = found
		return nil
	})
	if err != nil {
		s.logger.Warn("login user not found")
		return AuthResponse{}, err
	}

	if _, ok := domain.RoleForEmail(u.Email); !ok {
		return AuthResponse{}, autherrors.ErrDomainInvalid
	}
	if u.CompanyID != req.CompanyID {
		s.logger.Warn("login company mismatch", zap.String("user_id", u.ID), zap.String("company_id", req.CompanyID))
		return AuthResponse{}, autherrors.ErrCompanyMismatch
	}

	var upgraded string
	if u.Password != "" {
		ok, needsUpgrade, err := s.hasher.Verify(u.Password, req.Password)
		if err != nil {
			s.logger.Error("login verify password failed", zap.String("user_id", u.ID), zap.Error(err))
			return AuthResponse{}, err
		}
		if !ok {
			s.logger.Warn("login bad credentials", zap.String("user_id", u.ID))
			return AuthResponse{}, autherrors.ErrBadCredentials
		}
		if needsUpgrade {
			if upgraded, err = s.hasher.Hash(req.Password); err != nil {
				s.logger.Error("login hash password failed", zap.Error(err))
				return AuthResponse{}, err
			}
		}
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("login begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.users.WithTx(tx)
	current, err := qtx.FindByID(u.ID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrUserNotFound
	}
	// Skip the upgrade if the password changed since it was verified.
	if upgraded != "" && current.Password == u.Password {
		current.Password = upgraded
		if err := qtx.Save(current); err != nil {
			s.logger.Error("login upgrade password failed", zap.Error(err))
			return AuthResponse{}, err
		}
	}
	if err := tx.SetCurrentUser(current.ID); err != nil {
		return AuthResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("login commit failed", zap.Error(err))
		return AuthResponse{}, err
	}
	s.logger.Info("login success", zap.String("user_id", current.ID), zap.Bool("password_upgraded", upgraded != ""))

	return AuthResponse{User: user.ToResponse(current, true), Session: current.Session()}, nil
}

func checkNewPassword(pw, confirm string) error {
	if pw != confirm {
		return autherrors.ErrPasswordMismatch
	}
	if len(pw) < password.MinLength {
		return autherrors.ErrPasswordTooShort
	}
	return nil
}

func (s *service) Signup(ctx context.Context, req SignupRequest) (AuthResponse, error) {
	s.logger.Debug("signup requested", zap.String("company_name", req.CompanyName), zap.String("email", req.Email))

	companyName := strings.TrimSpace(req.CompanyName)
	if companyName == "" {
		return AuthResponse{}, autherrors.ErrCompanyNameRequired
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	checkDuplicate := func(tx *workforce.Tx) error {
		if _, exists := s.users.WithTx(tx).FindByEmail(email); exists {
			return autherrors.ErrDuplicateEmail
		}
		return nil
	}
	if err := s.store.Read(ctx, checkDuplicate); err != nil {
		s.logger.Warn("signup duplicate email", zap.String("email", email))
		return AuthResponse{}, err
	}

	role, ok := domain.RoleForEmail(email)
	if !ok {
		s.logger.Warn("signup invalid domain", zap.String("email", email))
		return AuthResponse{}, autherrors.ErrDomainInvalid
	}
	if !domain.ValidPhone(req.Phone) {
		s.logger.Warn("signup invalid phone")
		return AuthResponse{}, autherrors.ErrPhoneInvalid
	}
	if err := checkNewPassword(req.Password, req.ConfirmPassword); err != nil {
		s.logger.Warn("signup invalid password", zap.Error(err))
		return AuthResponse{}, err
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Error("signup hash password failed", zap.Error(err))
		return AuthResponse{}, err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("signup begin tx failed", zap.Error(err))
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	if err := checkDuplicate(tx); err != nil {
		return AuthResponse{}, err
	}

	qtx := s.users.WithTx(tx)
	companyID := domain.CompanySlug(companyName)
	year := s.now().Year()
	name := strings.TrimSpace(req.Name)
	first, last := user.SplitName(name)

	u := domain.User{
		ID:             uuid.NewString(),
		EmployeeID:     user.NextEmployeeID(companyName, first, last, year, qtx.FindAllByCompany(companyID)),
		CompanyID:      companyID,
		CompanyName:    companyName,
		CompanyLogo:    req.CompanyLogo,
		Name:           name,
		Email:          email,
		Phone:          req.Phone,
		Role:           role,
		Salary:         domain.DeriveSalary(domain.DefaultTotalWage, domain.WageMonthly),
		JoiningYear:    year,
		Status:         domain.PresenceAbsent,
		Password:       hashed,
		IsFirstLogin:   false,
		EmploymentType: defaultEmploymentType,
		Location:       defaultLocation,
		About:          defaultAbout,
	}
	if role == domain.RoleAdmin {
		u.Designation, u.Department = "HR Manager", "Human Resources"
	} else {
		u.Designation, u.Department = "Software Engineer", "Technology"
	}

	if err := qtx.Save(u); err != nil {
		s.logger.Error("signup persist failed", zap.Error(err))
		return AuthResponse{}, err
	}
	if err := tx.SetCurrentUser(u.ID); err != nil {
		return AuthResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("signup commit failed", zap.Error(err))
		return AuthResponse{}, err
	}
	s.logger.Info("signup success",
		zap.String("user_id", u.ID),
		zap.String("employee_id", u.EmployeeID),
		zap.String("company_id", u.CompanyID),
		zap.String("role", string(u.Role)),
	)

	return AuthResponse{User: user.ToResponse(u, true), Session: u.Session()}, nil
}

func (s *service) ChangePassword(ctx context.Context, sess domain.Session, req ChangePasswordRequest) error {
	s.logger.Debug("change password requested", zap.String("user_id", sess.UserID))

	if sess.IsZero() {
		return autherrors.ErrNotSignedIn
	}
	confirm := req.ConfirmPassword
	if confirm == "" {
		confirm = req.NewPassword
	}
	if err := checkNewPassword(req.NewPassword, confirm); err != nil {
		s.logger.Warn("change password invalid", zap.Error(err))
		return err
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		s.logger.Error("change password hash failed", zap.Error(err))
		return err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("change password begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.users.WithTx(tx)
	u, err := qtx.FindByID(sess.UserID)
	if err != nil {
		if errors.Is(err, usererrors.ErrUserNotFound) {
			return autherrors.ErrNotSignedIn
		}
		return err
	}
	u.Password = hashed
	u.IsFirstLogin = false
	if err := qtx.Save(u); err != nil {
		s.logger.Error("change password persist failed", zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("change password commit failed", zap.Error(err))
		return err
	}
	s.logger.Info("change password success", zap.String("user_id", u.ID))
	return nil
}

func (s *service) Me(ctx context.Context, sess domain.Session) (AuthResponse, error) {
	if sess.IsZero() {
		return AuthResponse{}, autherrors.ErrNotSignedIn
	}
	var u domain.User
	err := s.store.Read(ctx, func(tx *workforce.Tx) error {
		var err error
		u, err = s.users.WithTx(tx).FindByID(sess.UserID)
		return err
	})
	if err != nil {
		return AuthResponse{}, autherrors.ErrNotSignedIn
	}
	return AuthResponse{User: user.ToResponse(u, true), Session: u.Session()}, nil
}

// Logout clears the recorded current user when it belongs to sess.
func (s *service) Logout(ctx context.Context, sess domain.Session) error {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cur, ok := tx.CurrentUser()
	if !ok || (!sess.IsZero() && cur.ID != sess.UserID) {
		return nil
	}
	if err := tx.SetCurrentUser(""); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("logout commit failed", zap.Error(err))
		return err
	}
	s.logger.Info("logout success", zap.String("user_id", cur.ID))
	return nil
}

func (s *service) CurrentSession(ctx context.Context) (domain.Session, bool) {
	u, ok := s.store.CurrentUser(ctx)
	if !ok {
		return domain.Session{}, false
	}
	return u.Session(), true
}
