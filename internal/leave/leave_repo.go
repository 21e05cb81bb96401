package leave

import (
	"go-thread/internal/domain"
	leaveerrors "go-thread/internal/leave/errors"
	"go-thread/internal/workforce"
)

type Repository interface {
	WithTx(tx *workforce.Tx) Repository
	FindByID(id string) (domain.LeaveRequest, error)
	FindAllByCompany(companyID string, filter Filter) []domain.LeaveRequest
	HasOverlappingPeriod(userID, startDate, endDate string) bool
	Save(l domain.LeaveRequest) error
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

func (r *repository) FindByID(id string) (domain.LeaveRequest, error) {
	l, ok := r.tx.Leave(id)
	if !ok {
		return domain.LeaveRequest{}, leaveerrors.ErrLeaveNotFound
	}
	return l, nil
}

func (r *repository) FindAllByCompany(companyID string, filter Filter) []domain.LeaveRequest {
	out := []domain.LeaveRequest{}
	for _, l := range r.tx.Leaves() {
		if l.CompanyID != companyID {
			continue
		}
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// HasOverlappingPeriod reports whether userID holds a pending or approved
// request intersecting [startDate, endDate]. Dates are YYYY-MM-DD so they
// compare lexically.
func (r *repository) HasOverlappingPeriod(userID, startDate, endDate string) bool {
	for _, l := range r.tx.Leaves() {
		if l.UserID != userID || l.Status == domain.LeaveRejected {
			continue
		}
		if l.StartDate <= endDate && startDate <= l.EndDate {
			return true
		}
	}
	return false
}

func (r *repository) Save(l domain.LeaveRequest) error {
	return r.tx.PutLeave(l)
}
