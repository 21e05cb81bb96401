// Package token issues and verifies the signed session tokens used by the
// HTTP API.
package token

import (
	"errors"
	"fmt"
	"time"

	"go-thread/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("token: invalid")
	ErrExpired = errors.New("token: expired")
)

type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying sess.
func (m *Manager) Issue(sess domain.Session) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("token: signing secret is not configured")
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.MapClaims{
		"user_id":    sess.UserID,
		"company_id": sess.CompanyID,
		"role":       string(sess.Role),
		"iat":        now.Unix(),
		"exp":        exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies tokenString and returns the session it carries.
func (m *Manager) Parse(tokenString string) (domain.Session, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, ErrExpired
		}
		return domain.Session{}, ErrInvalid
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return domain.Session{}, ErrInvalid
	}
	userID, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || companyID == "" {
		return domain.Session{}, ErrInvalid
	}
	return domain.Session{UserID: userID, CompanyID: companyID, Role: domain.Role(role)}, nil
}
