// Package auth implements JWT issuing and verification plus the gin
// middleware that guards the API.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artflow/artflow/internal/common/config"
)

// ErrNoSecret is returned when no JWT secret has been configured.
var ErrNoSecret = errors.New("jwt secret is not configured")

// Claims carried inside every access token.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies access tokens with an HS256 secret.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

// NewTokenManager creates a TokenManager from auth configuration.
func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:   []byte(cfg.JWTSecret),
		duration: cfg.TokenDurationTime(),
	}
}

// Configured reports whether a signing secret is available.
func (m *TokenManager) Configured() bool {
	return len(m.secret) > 0
}

// Generate issues a signed token for the given identity.
func (m *TokenManager) Generate(id, email, name string) (string, error) {
	if !m.Configured() {
		return "", ErrNoSecret
	}

	now := time.Now().UTC()
	claims := Claims{
		ID:    id,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	if !m.Configured() {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
