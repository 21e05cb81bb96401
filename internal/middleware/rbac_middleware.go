package middleware

import (
	"go-thread/internal/domain"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by anything that can evaluate an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize requires the caller's role to hold resource:action.
func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := Session(c)
		if sess.IsZero() {
			response.AppError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     sess.Role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.AppError(c, err)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, apperror.ErrForbidden.HTTPStatus, apperror.ErrForbidden.Code, apperror.ErrForbidden.Message, gin.H{
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
