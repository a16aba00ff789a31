// Package session issues and verifies the participant session tokens
// carried in the HttpOnly cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yesbharath/spinwheel-backend/internal/config"
)

// ErrInvalidToken is returned when a session token fails verification
var ErrInvalidToken = errors.New("invalid session token")

// Payload is the participant session claims
type Payload struct {
	ParticipantID string
	Version       int
}

// TokenService signs and verifies participant session JWTs
type TokenService struct {
	secret []byte
	maxAge time.Duration
}

// NewTokenService creates a new TokenService
func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Session.Secret),
		maxAge: time.Duration(cfg.Session.MaxAge) * time.Second,
	}
}

// Sign issues a session token for a participant
func (s *TokenService) Sign(payload Payload) (string, error) {
	claims := jwt.MapClaims{
		"sub":     payload.ParticipantID,
		"version": payload.Version,
		"role":    "user",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(s.maxAge).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns its payload
func (s *TokenService) Verify(tokenString string) (*Payload, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	version := 0
	if v, ok := claims["version"].(float64); ok {
		version = int(v)
	}

	return &Payload{ParticipantID: sub, Version: version}, nil
}
