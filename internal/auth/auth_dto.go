package auth

import (
	"time"

	"go-thread/internal/domain"
	"go-thread/internal/user"
)

type SignupRequest struct {
	CompanyName     string `json:"companyName"`
	CompanyLogo     string `json:"companyLogo"`
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest identifies the user by email or employee id.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password"`
	CompanyID  string `json:"companyId" binding:"required"`
}

type ChangePasswordRequest struct {
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AuthResponse struct {
	User        user.UserResponse `json:"user"`
	AccessToken string            `json:"accessToken,omitempty"`
	ExpiresAt   *time.Time        `json:"expiresAt,omitempty"`

	Session domain.Session `json:"-"`
}
