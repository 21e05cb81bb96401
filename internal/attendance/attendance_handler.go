package attendance

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"go-thread/internal/middleware"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bindOptionalJSON accepts an empty body.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) GetAll(c *gin.Context) {
	sess := middleware.Session(c)
	filter := Filter{UserID: c.Query("user_id"), Date: c.Query("date")}
	h.logger.Debug("http get all attendance",
		zap.String("company_id", sess.CompanyID),
		zap.String("user_id", filter.UserID),
		zap.String("date", filter.Date),
	)

	resp, err := h.svc.GetAll(c.Request.Context(), sess, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	items, meta := response.Paginate(resp, page, pageSize)
	response.Success(c, http.StatusOK, items, &meta)
}

func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("http check in validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.CheckIn(c.Request.Context(), middleware.Session(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("http check out validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.CheckOut(c.Request.Context(), middleware.Session(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update attendance validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), middleware.Session(c), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), middleware.Session(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
