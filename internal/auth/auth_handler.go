package auth

import (
	"net/http"
	"time"

	autherrors "go-thread/internal/auth/errors"
	"go-thread/internal/domain"
	"go-thread/internal/middleware"
	"go-thread/internal/shared/apperror"
	"go-thread/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const accessTokenCookie = "access_token"

// TokenIssuer signs a session into a bearer token.
type TokenIssuer interface {
	Issue(sess domain.Session) (string, time.Time, error)
}

type Handler struct {
	service       Service
	tokens        TokenIssuer
	secureCookies bool
	logger        *zap.Logger
}

func NewHandler(s Service, tokens TokenIssuer, secureCookies bool, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, tokens: tokens, secureCookies: secureCookies, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// signIn attaches a fresh token to resp.
func (h *Handler) signIn(c *gin.Context, resp AuthResponse) (AuthResponse, error) {
	token, expiresAt, err := h.tokens.Issue(resp.Session)
	if err != nil {
		h.logger.Error("issue token failed", zap.String("user_id", resp.Session.UserID), zap.Error(err))
		return AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	resp.AccessToken = token
	resp.ExpiresAt = &expiresAt
	h.setTokenCookie(c, token, int(time.Until(expiresAt).Seconds()))
	return resp, nil
}

func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp, err = h.signIn(c, resp); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp, err = h.signIn(c, resp); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Me(c *gin.Context) {
	resp, err := h.service.Me(c.Request.Context(), middleware.Session(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), middleware.Session(c), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true}, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.Session(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.setTokenCookie(c, "", -1)
	response.Success(c, http.StatusOK, "Logout success.", nil)
}
