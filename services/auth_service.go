package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Dosada05/pingpong-tournament/utils"
	"github.com/golang-jwt/jwt/v4"
)

const (
	RoleOrganizer = "organizer"
	tokenTTL      = 24 * time.Hour
)

type AuthService interface {
	// Enabled reports whether organizer tokens are required at all.
	Enabled() bool
	Login(ctx context.Context, password string) (token string, expiresAt time.Time, err error)
}

type authService struct {
	passwordHash string
	jwtSecret    []byte
	now          func() time.Time
}

// NewAuthService checks organizer passwords against a bcrypt hash and
// signs HS256 tokens. An empty secret disables authentication.
func NewAuthService(passwordHash, jwtSecret string) AuthService {
	return &authService{
		passwordHash: passwordHash,
		jwtSecret:    []byte(jwtSecret),
		now:          time.Now,
	}
}

func (s *authService) Enabled() bool {
	return len(s.jwtSecret) > 0
}

func (s *authService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAuthDisabled
	}
	if password == "" || !utils.CheckPasswordHash(password, s.passwordHash) {
		return "", time.Time{}, ErrAuthInvalidCredentials
	}

	now := s.now()
	exp := now.Add(tokenTTL)
	claims := jwt.MapClaims{
		"role": RoleOrganizer,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign organizer token: %w", err)
	}
	return token, exp, nil
}
