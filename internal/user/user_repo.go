package user

import (
	"strings"

	"go-thread/internal/domain"
	usererrors "go-thread/internal/user/errors"
	"go-thread/internal/workforce"
)

type Repository interface {
	WithTx(tx *workforce.Tx) Repository
	FindByID(id string) (domain.User, error)
	FindByEmail(email string) (domain.User, bool)
	FindByIdentifier(identifier string) (domain.User, bool)
	FindAllByCompany(companyID string) []domain.User
	Save(u domain.User) error
}

type repository struct {
	tx *workforce.Tx
}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) WithTx(tx *workforce.Tx) Repository {
	return &repository{tx: tx}
}

func (r *repository) FindByID(id string) (domain.User, error) {
	u, ok := r.tx.User(id)
	if !ok {
		return domain.User{}, usererrors.ErrUserNotFound
	}
	return u, nil
}

// FindByEmail matches case-insensitively.
func (r *repository) FindByEmail(email string) (domain.User, bool) {
	email = strings.TrimSpace(email)
	for _, u := range r.tx.Users() {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return domain.User{}, false
}

// FindByIdentifier matches an email or an employee id.
func (r *repository) FindByIdentifier(identifier string) (domain.User, bool) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.User{}, false
	}
	for _, u := range r.tx.Users() {
		if strings.EqualFold(u.Email, identifier) || u.EmployeeID == identifier {
			return u, true
		}
	}
	return domain.User{}, false
}

func (r *repository) FindAllByCompany(companyID string) []domain.User {
	var out []domain.User
	for _, u := range r.tx.Users() {
		if u.CompanyID == companyID {
			out = append(out, u)
		}
	}
	return out
}

func (r *repository) Save(u domain.User) error {
	return r.tx.PutUser(u)
}
