package attendance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-thread/internal/attendance"
	attendanceerrors "go-thread/internal/attendance/errors"
	"go-thread/internal/domain"
	"go-thread/internal/middleware"
	"go-thread/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceService struct {
	checkInFn  func(ctx context.Context, sess domain.Session, req attendance.CheckInRequest) (attendance.AttendanceResponse, error)
	checkOutFn func(ctx context.Context, sess domain.Session, id string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error)
	updateFn   func(ctx context.Context, sess domain.Session, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error)
	getAllFn   func(ctx context.Context, sess domain.Session, filter attendance.Filter) ([]attendance.AttendanceResponse, error)
	summaryFn  func(ctx context.Context, sess domain.Session) (attendance.SummaryResponse, error)
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context, sess domain.Session, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	return f.checkInFn(ctx, sess, req)
}

func (f *fakeAttendanceService) CheckOut(ctx context.Context, sess domain.Session, id string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	return f.checkOutFn(ctx, sess, id, req)
}

func (f *fakeAttendanceService) Update(ctx context.Context, sess domain.Session, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	return f.updateFn(ctx, sess, id, req)
}

func (f *fakeAttendanceService) GetAll(ctx context.Context, sess domain.Session, filter attendance.Filter) ([]attendance.AttendanceResponse, error) {
	return f.getAllFn(ctx, sess, filter)
}

func (f *fakeAttendanceService) Summary(ctx context.Context, sess domain.Session) (attendance.SummaryResponse, error) {
	return f.summaryFn(ctx, sess)
}

var empSession = domain.Session{UserID: "emp1", CompanyID: "acme-corp", Role: domain.RoleEmployee}

func newContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.SetSession(c, empSession)
	return c, w
}

func TestAttendanceHandler_CheckIn(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		svc := &fakeAttendanceService{
			checkInFn: func(ctx context.Context, sess domain.Session, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, empSession, sess)
				assert.Nil(t, req.Date)
				return attendance.AttendanceResponse{ID: "r1", UserID: sess.UserID, Status: domain.PresencePresent}, nil
			},
		}
		c, w := newContext(http.MethodPost, "/attendances/check-in", "")

		attendance.NewHandler(svc).CheckIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"r1"`)
	})

	t.Run("invalid status", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/attendances/check-in", `{"status":"SLEEPING"}`)

		attendance.NewHandler(&fakeAttendanceService{}).CheckIn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("duplicate", func(t *testing.T) {
		svc := &fakeAttendanceService{
			checkInFn: func(ctx context.Context, sess domain.Session, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
			},
		}
		c, w := newContext(http.MethodPost, "/attendances/check-in", `{}`)

		attendance.NewHandler(svc).CheckIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestAttendanceHandler_CheckOutAndUpdate(t *testing.T) {
	svc := &fakeAttendanceService{
		checkOutFn: func(ctx context.Context, sess domain.Session, id string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, "r1", id)
			require.NotNil(t, req.CheckOut)
			assert.Equal(t, "06:00 PM", *req.CheckOut)
			return attendance.AttendanceResponse{ID: id, WorkHours: 8, ExtraHours: 1}, nil
		},
		updateFn: func(ctx context.Context, sess domain.Session, id string, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newContext(http.MethodPost, "/attendances/r1/check-out", `{"checkOut":"06:00 PM"}`)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	h.CheckOut(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"workHours":8`)

	c, w = newContext(http.MethodPatch, "/attendances/zz", `{"workHours":-2}`)
	c.Params = gin.Params{{Key: "id", Value: "zz"}}
	h.Update(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodPatch, "/attendances/zz", `{"workHours":2}`)
	c.Params = gin.Params{{Key: "id", Value: "zz"}}
	h.Update(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAttendanceHandler_GetAll(t *testing.T) {
	svc := &fakeAttendanceService{
		getAllFn: func(ctx context.Context, sess domain.Session, filter attendance.Filter) ([]attendance.AttendanceResponse, error) {
			assert.Equal(t, "2024-03-01", filter.Date)
			return []attendance.AttendanceResponse{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}, nil
		},
		summaryFn: func(ctx context.Context, sess domain.Session) (attendance.SummaryResponse, error) {
			return attendance.SummaryResponse{PresentToday: 2}, nil
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newContext(http.MethodGet, "/attendances?date=2024-03-01&page=2&page_size=2", "")
	h.GetAll(c)
	require.Equal(t, http.StatusOK, w.Code)

	var env struct {
		Data []attendance.AttendanceResponse `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "r3", env.Data[0].ID)
	assert.EqualValues(t, 3, env.Meta.Total)

	c, w = newContext(http.MethodGet, "/attendances/summary", "")
	h.Summary(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"presentToday":2`)
}
