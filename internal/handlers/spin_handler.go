package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yesbharath/spinwheel-backend/internal/middleware"
	"github.com/yesbharath/spinwheel-backend/internal/services"
)

// SpinHandler handles the spin endpoint
type SpinHandler struct {
	spinService *services.SpinService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService *services.SpinService) *SpinHandler {
	return &SpinHandler{spinService: spinService}
}

// Spin handles POST /api/spin
func (h *SpinHandler) Spin(c *gin.Context) {
	participantID, ok := middleware.ParticipantID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	result, err := h.spinService.Spin(c.Request.Context(), participantID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadySpun):
			// The stored outcome rides along so the UI can show it again.
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "You have already spun the wheel",
				"prize": result,
			})
		case errors.Is(err, services.ErrParticipantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		case errors.Is(err, services.ErrNotEligible):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not eligible to spin"})
		case errors.Is(err, services.ErrTermsNotAgreed):
			c.JSON(http.StatusForbidden, gin.H{"error": "Please accept the contest terms first"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, slow down"})
		case errors.Is(err, services.ErrContestInactive):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The contest is not active right now"})
		case errors.Is(err, services.ErrInventoryExhausted):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Prize inventory exhausted"})
		case errors.Is(err, services.ErrServiceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Please try again in a moment"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prize": result})
}
