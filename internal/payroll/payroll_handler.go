package payroll

import (
	"fmt"
	"net/http"

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
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// userParam maps the "me" alias to the caller.
func userParam(c *gin.Context) string {
	id := c.Param("userId")
	if id == "me" {
		return ""
	}
	return id
}

func (h *Handler) GetPayroll(c *gin.Context) {
	resp, err := h.svc.GetPayroll(c.Request.Context(), middleware.Session(c), userParam(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) DownloadPayslip(c *gin.Context) {
	period := c.Query("period")
	pdf, err := h.svc.Payslip(c.Request.Context(), middleware.Session(c), userParam(c), period)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	name := "payslip.pdf"
	if period != "" {
		name = fmt.Sprintf("payslip-%s.pdf", period)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context(), middleware.Session(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
