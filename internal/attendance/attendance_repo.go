package attendance

import (
	attendanceerrors "go-thread/internal/attendance/errors"
	"go-thread/internal/domain"
	"go-thread/internal/workforce"
)

type Repository interface {
	WithTx(tx *workforce.Tx) Repository
	FindByID(id string) (domain.AttendanceRecord, error)
	FindByUserAndDate(userID, date string) (domain.AttendanceRecord, bool)
	FindAllByCompany(companyID string, filter Filter) []domain.AttendanceRecord
	Save(r domain.AttendanceRecord) error
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

func (r *repository) FindByID(id string) (domain.AttendanceRecord, error) {
	rec, ok := r.tx.AttendanceRecord(id)
	if !ok {
		return domain.AttendanceRecord{}, attendanceerrors.ErrRecordNotFound
	}
	return rec, nil
}

func (r *repository) FindByUserAndDate(userID, date string) (domain.AttendanceRecord, bool) {
	for _, rec := range r.tx.AttendanceRecords() {
		if rec.UserID == userID && rec.Date == date {
			return rec, true
		}
	}
	return domain.AttendanceRecord{}, false
}

// FindAllByCompany returns records in insertion order. Empty filter fields
// match everything.
func (r *repository) FindAllByCompany(companyID string, filter Filter) []domain.AttendanceRecord {
	out := []domain.AttendanceRecord{}
	for _, rec := range r.tx.AttendanceRecords() {
		if rec.CompanyID != companyID {
			continue
		}
		if filter.UserID != "" && rec.UserID != filter.UserID {
			continue
		}
		if filter.Date != "" && rec.Date != filter.Date {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *repository) Save(rec domain.AttendanceRecord) error {
	return r.tx.PutAttendance(rec)
}
