package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"
	TokenTTL  = 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAuthDisabled       = errors.New("login is not configured")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Claims carried by access tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService authenticates the single configured administrator.
type AuthService struct {
	AdminEmail   string
	PasswordHash string
	Secret       []byte
	Now          func() time.Time
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks the password with bcrypt and issues an HS256 token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	if len(s.Secret) == 0 || s.PasswordHash == "" {
		return "", time.Time{}, ErrAuthDisabled
	}
	if !strings.EqualFold(strings.TrimSpace(email), s.AdminEmail) {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.AdminEmail,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, domain.Internal("failed to sign token", err)
	}
	utils.LogEvent(utils.RequestIDFrom(ctx), "auth", "login", "subject="+s.AdminEmail)
	return signed, exp, nil
}

// ParseToken validates signature, algorithm and expiry.
func (s AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
