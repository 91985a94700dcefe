package auth

import (
	"errors"
	"time"
)

// ErrBadCredentials is returned by Login for any wrong password.
var ErrBadCredentials = errors.New("bad credentials")

// Service gates the admin API: one operator password (stored as a bcrypt
// hash in config), short-lived HS256 tokens.
type Service struct {
	passwordHash string
	jwtConfig    *JWTConfig
}

// NewService creates the admin auth service.
func NewService(passwordHash, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{
		passwordHash: passwordHash,
		jwtConfig: &JWTConfig{
			Secret: []byte(jwtSecret),
			Issuer: "cellsync",
			TTL:    tokenTTL,
		},
	}
}

// Login exchanges the operator password for a bearer token.
func (s *Service) Login(password string) (string, error) {
	if s.passwordHash == "" {
		return "", ErrBadCredentials
	}
	if err := ComparePassword(s.passwordHash, password); err != nil {
		return "", ErrBadCredentials
	}
	return GenerateToken(s.jwtConfig, "admin")
}

// ValidateToken checks a bearer token presented to the admin API.
func (s *Service) ValidateToken(token string) (*Claims, error) {
	return ValidateToken(s.jwtConfig, token)
}
