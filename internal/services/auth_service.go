package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// maxAdminSessions caps concurrent admin panel logins per user. Logging in
// past the cap evicts the least recently active session.
const maxAdminSessions = 5

// AuthService handles admin panel authentication
type AuthService struct {
	adminRepo  repositories.AdminUserRepository
	rateLimits *RateLimitService
	jwtSecret  string
	jwtExpiry  time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(adminRepo repositories.AdminUserRepository, rateLimits *RateLimitService, jwtSecret string, jwtExpirySeconds int) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		rateLimits: rateLimits,
		jwtSecret:  jwtSecret,
		jwtExpiry:  time.Duration(jwtExpirySeconds) * time.Second,
	}
}

// AdminClaims are the JWT claims issued to an admin panel session
type AdminClaims struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	SessionToken string `json:"sessionToken"`
	jwt.RegisteredClaims
}

// Login verifies the credentials and opens a session. A bcrypt comparison
// runs even for unknown usernames so the two failure paths take similar
// time.
func (s *AuthService) Login(ctx context.Context, username, password, ip, userAgent string) (string, *models.AdminUser, error) {
	if err := s.rateLimits.CheckAdminLogin(ctx, ip); err != nil {
		return "", nil, err
	}

	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			bcrypt.CompareHashAndPassword([]byte("$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv"), []byte(password))
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		slog.Warn("admin login failed", "username", username, "ip", ip)
		return "", nil, ErrInvalidCredentials
	}

	sessionToken := uuid.NewString()
	now := time.Now()
	sessions := append(admin.ActiveSessions, models.AdminSession{
		Token:      sessionToken,
		IP:         ip,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastActive: now,
	})
	if len(sessions) > maxAdminSessions {
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].LastActive.After(sessions[j].LastActive)
		})
		sessions = sessions[:maxAdminSessions]
	}
	if err := s.adminRepo.ReplaceSessions(ctx, admin.ID, sessions); err != nil {
		return "", nil, err
	}

	claims := AdminClaims{
		Username:     admin.Username,
		Role:         admin.Role,
		SessionToken: sessionToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, err
	}

	slog.Info("admin login", "username", username, "ip", ip, "sessions", len(sessions))
	return signed, admin, nil
}

// Verify parses the JWT and confirms the embedded session token is still
// active. A session evicted by a newer login fails here even with a valid
// signature.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*models.AdminUser, *AdminClaims, error) {
	claims := &AdminClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, nil, ErrInvalidCredentials
	}

	admin, err := s.adminRepo.FindBySessionToken(ctx, claims.SessionToken)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	return admin, claims, nil
}

// Logout removes the session referenced by the token
func (s *AuthService) Logout(ctx context.Context, tokenString string) error {
	admin, claims, err := s.Verify(ctx, tokenString)
	if err != nil {
		return err
	}
	return s.adminRepo.RemoveSession(ctx, admin.ID, claims.SessionToken)
}
