package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yesbharath/spinwheel-backend/internal/config"
	"github.com/yesbharath/spinwheel-backend/internal/services"
	"github.com/yesbharath/spinwheel-backend/pkg/session"
)

// AuthHandler handles participant OTP authentication
type AuthHandler struct {
	otpService *services.OtpService
	tokens     *session.TokenService
	cfg        *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(otpService *services.OtpService, tokens *session.TokenService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		otpService: otpService,
		tokens:     tokens,
		cfg:        cfg,
	}
}

// SendOTPRequest is the request body for POST /api/auth/send-otp
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name" binding:"required"`
}

// SendOTP handles POST /api/auth/send-otp
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone and name are required"})
		return
	}

	err := h.otpService.SendOTP(c.Request.Context(), req.Phone, req.Name, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many OTP requests, try again later"})
		case errors.Is(err, services.ErrNotEligible):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent"})
}

// VerifyOTPRequest is the request body for POST /api/auth/verify-otp
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
	Name  string `json:"name"`
}

// VerifyOTP handles POST /api/auth/verify-otp. On success the session
// cookie is set and the participant is returned.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phone and OTP are required"})
		return
	}

	participant, err := h.otpService.VerifyOTP(c.Request.Context(), req.Phone, req.OTP, req.Name, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidOTP):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired OTP"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many failed attempts, try again later"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		}
		return
	}

	token, err := h.tokens.Sign(session.Payload{ParticipantID: participant.ID.Hex(), Version: 1})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, token, h.cfg.Session.MaxAge, "/", "", h.cfg.Session.Secure, true)

	c.JSON(http.StatusOK, gin.H{"success": true, "participant": participant})
}

// Logout handles POST /api/auth/logout by clearing the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.Secure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
