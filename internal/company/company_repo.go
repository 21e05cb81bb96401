package company

import (
	"sort"

	companyerrors "go-thread/internal/company/errors"
	"go-thread/internal/domain"
	"go-thread/internal/workforce"
)

// Repository reads companies out of the user records. A company exists while
// at least one user belongs to it.
type Repository interface {
	WithTx(tx *workforce.Tx) Repository
	FindAll() []CompanyResponse
	FindByID(id string) (domain.Company, error)
	Save(c domain.Company) error
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

// FindAll returns one entry per company ordered by name. Name and logo come
// from the first admin, or the first member when there is none.
func (r *repository) FindAll() []CompanyResponse {
	index := map[string]int{}
	fromAdmin := map[string]bool{}
	out := []CompanyResponse{}
	for _, u := range r.tx.Users() {
		i, ok := index[u.CompanyID]
		if !ok {
			i = len(out)
			index[u.CompanyID] = i
			out = append(out, CompanyResponse{ID: u.CompanyID})
		}
		c := &out[i]
		c.HeadCount++
		if !fromAdmin[u.CompanyID] && (c.Name == "" || u.IsAdmin()) {
			c.Name, c.Logo = u.CompanyName, u.CompanyLogo
			fromAdmin[u.CompanyID] = u.IsAdmin()
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *repository) FindByID(id string) (domain.Company, error) {
	for _, c := range r.FindAll() {
		if c.ID == id {
			return domain.Company{ID: c.ID, Name: c.Name, Logo: c.Logo}, nil
		}
	}
	return domain.Company{}, companyerrors.ErrCompanyNotFound
}

// Save rewrites the company name and logo on every member.
func (r *repository) Save(c domain.Company) error {
	for _, u := range r.tx.Users() {
		if u.CompanyID != c.ID {
			continue
		}
		u.CompanyName, u.CompanyLogo = c.Name, c.Logo
		if err := r.tx.PutUser(u); err != nil {
			return err
		}
	}
	return nil
}
