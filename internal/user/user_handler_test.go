package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-thread/internal/domain"
	"go-thread/internal/middleware"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/user"
	usererrors "go-thread/internal/user/errors"
	userMock "go-thread/internal/user/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

var adminSession = domain.Session{UserID: "admin1", CompanyID: "acme-corp", Role: domain.RoleAdmin}

func newContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	middleware.SetSession(c, adminSession)
	return c, w
}

func TestUserHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := userMock.NewMockService(ctrl)
	h := user.NewHandler(svc)

	t.Run("success", func(t *testing.T) {
		svc.EXPECT().AddEmployee(gomock.Any(), adminSession, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Session, req user.AddEmployeeRequest) (user.AddEmployeeResponse, error) {
				assert.Equal(t, "Mark", req.FirstName)
				require.NotNil(t, req.TotalWage)
				assert.Equal(t, domain.Amount(60000), *req.TotalWage)
				return user.AddEmployeeResponse{
					User:              user.UserResponse{ID: "u2", EmployeeID: "ACMATW20240002"},
					TemporaryPassword: "abcd1234",
				}, nil
			})
		c, w := newContext(http.MethodPost, "/users",
			`{"firstName":"Mark","lastName":"Twain","email":"mark@employee.com","phone":"1234567890","totalWage":60000}`)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got user.AddEmployeeResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "abcd1234", got.TemporaryPassword)
	})

	t.Run("binding error", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/users", `{"firstName":"Mark"}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("service error maps to status", func(t *testing.T) {
		svc.EXPECT().AddEmployee(gomock.Any(), adminSession, gomock.Any()).
			Return(user.AddEmployeeResponse{}, usererrors.ErrDuplicateEmail)
		c, w := newContext(http.MethodPost, "/users",
			`{"firstName":"Mark","lastName":"Twain","email":"mark@employee.com","phone":"1234567890"}`)

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "DUPLICATE_EMAIL", env.Error.Code)
		assert.Equal(t, "Employee email already registered", env.Error.Message)
	})
}

func TestUserHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := userMock.NewMockService(ctrl)
	svc.EXPECT().GetAll(gomock.Any(), adminSession, "jane").
		Return([]user.UserResponse{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)
	c, w := newContext(http.MethodGet, "/users?q=jane&page=2&page_size=2", "")

	user.NewHandler(svc).GetAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got []user.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.JSONEq(t, `{"total":3,"totalPages":2,"page":2,"pageSize":2}`, string(env.Meta))
}

func TestUserHandler_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := userMock.NewMockService(ctrl)
	h := user.NewHandler(svc)

	t.Run("forbidden", func(t *testing.T) {
		svc.EXPECT().UpdateUser(gomock.Any(), adminSession, "admin1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ domain.Session, _ string, req user.UpdateUserRequest) (user.UserResponse, error) {
				require.NotNil(t, req.Salary)
				return user.UserResponse{}, usererrors.ErrOwnSalary
			})
		c, w := newContext(http.MethodPatch, "/users/admin1", `{"salary":{"totalWage":1}}`)
		c.Params = gin.Params{{Key: "id", Value: "admin1"}}

		h.Update(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		c, w := newContext(http.MethodPatch, "/users/u1", `{"status":"ON_VACATION"}`)
		c.Params = gin.Params{{Key: "id", Value: "u1"}}

		h.Update(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
