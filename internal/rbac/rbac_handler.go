package rbac

import (
	"net/http"

	"go-thread/internal/domain"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{service: service, logger: l}
}

// Enforce reports whether the caller's role may perform the action.
func (h *Handler) Enforce(c *gin.Context) {
	var req EnforceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.AppError(c, apperror.MapValidationError(err))
		return
	}

	role := domain.Role(c.GetString("role"))
	allowed, err := h.service.Enforce(domain.EnforceRequest{Role: role, Resource: req.Resource, Action: req.Action})
	if err != nil {
		h.logger.Error("http enforce failed", zap.Error(err))
		response.AppError(c, err)
		return
	}

	response.Success(c, http.StatusOK, EnforceResponse{Allowed: allowed}, nil)
}

// Permissions lists the caller's role permissions.
func (h *Handler) Permissions(c *gin.Context) {
	perms, err := h.service.Permissions(domain.Role(c.GetString("role")))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Success(c, http.StatusOK, perms, nil)
}
