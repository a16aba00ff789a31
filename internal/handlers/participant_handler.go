package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yesbharath/spinwheel-backend/internal/middleware"
	"github.com/yesbharath/spinwheel-backend/internal/services"
)

// ParticipantHandler handles participant self-service requests
type ParticipantHandler struct {
	participantService *services.ParticipantService
}

// NewParticipantHandler creates a new ParticipantHandler
func NewParticipantHandler(participantService *services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// Check handles GET /api/participant/check
func (h *ParticipantHandler) Check(c *gin.Context) {
	id, ok := middleware.ParticipantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	status, err := h.participantService.Status(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, status)
}

// AgreeTerms handles POST /api/participant/agree-terms
func (h *ParticipantHandler) AgreeTerms(c *gin.Context) {
	id, ok := middleware.ParticipantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := h.participantService.AgreeTerms(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateProfileRequest is the request body for POST /api/participant/update-profile
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

// UpdateProfile handles POST /api/participant/update-profile
func (h *ParticipantHandler) UpdateProfile(c *gin.Context) {
	id, ok := middleware.ParticipantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A name of at least 2 characters is required"})
		return
	}

	participant, err := h.participantService.UpdateProfile(c.Request.Context(), id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many profile updates"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "participant": participant})
}
