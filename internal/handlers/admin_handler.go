package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"github.com/yesbharath/spinwheel-backend/internal/services"
)

// AdminHandler handles the admin panel API
type AdminHandler struct {
	authService     *services.AuthService
	contestService  *services.ContestService
	redeemService   *services.RedeemService
	participantRepo repositories.ParticipantRepository
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	authService *services.AuthService,
	contestService *services.ContestService,
	redeemService *services.RedeemService,
	participantRepo repositories.ParticipantRepository,
) *AdminHandler {
	return &AdminHandler{
		authService:     authService,
		contestService:  contestService,
		redeemService:   redeemService,
		participantRepo: participantRepo,
	}
}

// LoginRequest is the request body for POST /api/admin/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	token, admin, err := h.authService.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		case errors.Is(err, services.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"username": admin.Username, "role": admin.Role},
	})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) {
		if err := h.authService.Logout(c.Request.Context(), authHeader[len(prefix):]); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Stats handles GET /api/admin/contest
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.contestService.Stats(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrContestInactive) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active contest found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// SetPrizeQuantityRequest is the request body for PUT /api/admin/contest/prizes/:tierId
type SetPrizeQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

// SetPrizeQuantity handles PUT /api/admin/contest/prizes/:tierId
func (h *AdminHandler) SetPrizeQuantity(c *gin.Context) {
	var req SetPrizeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity is required"})
		return
	}

	if err := h.contestService.SetPrizeQuantity(c.Request.Context(), c.Param("tierId"), *req.Quantity); err != nil {
		if errors.Is(err, services.ErrContestInactive) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active contest found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListParticipants handles GET /api/admin/participants
func (h *AdminHandler) ListParticipants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	query := repositories.ParticipantQuery{
		Page:      page,
		Limit:     limit,
		Search:    c.Query("search"),
		SortField: c.DefaultQuery("sortField", "createdAt"),
		SortAsc:   c.Query("sortOrder") == "asc",
	}

	items, total, err := h.participantRepo.FindPage(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"pagination": gin.H{
			"total":      total,
			"page":       page,
			"limit":      limit,
			"totalPages": totalPages,
		},
	})
}

// BlockParticipantRequest is the request body for PUT /api/admin/participants/:id/block
type BlockParticipantRequest struct {
	Blocked bool  `json:"blocked"`
	Hours   int64 `json:"hours"`
}

// BlockParticipant handles PUT /api/admin/participants/:id/block
func (h *AdminHandler) BlockParticipant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var req BlockParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var until time.Time
	if req.Blocked && req.Hours > 0 {
		until = time.Now().Add(time.Duration(req.Hours) * time.Hour)
	}
	if err := h.participantRepo.SetBlocked(c.Request.Context(), id, req.Blocked, until); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteParticipant handles DELETE /api/admin/participants/:id
func (h *AdminHandler) DeleteParticipant(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.participantRepo.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateRedeemRequest is the request body for PUT /api/admin/redeem
type UpdateRedeemRequest struct {
	ParticipantID   string `json:"participantId" binding:"required"`
	Status          string `json:"status" binding:"required"`
	RejectionReason string `json:"rejectionReason"`
}

// UpdateRedeem handles PUT /api/admin/redeem
func (h *AdminHandler) UpdateRedeem(c *gin.Context) {
	var req UpdateRedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	participantID, err := primitive.ObjectIDFromHex(req.ParticipantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid participant ID"})
		return
	}

	redeem, err := h.redeemService.UpdateStatus(c.Request.Context(), participantID, models.RedeemStatus(req.Status), req.RejectionReason)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Redeem record not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": redeem})
}

// ListRedeems handles GET /api/admin/redeem
func (h *AdminHandler) ListRedeems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	status := models.RedeemStatus(c.DefaultQuery("status", string(models.RedeemStatusPending)))

	redeems, err := h.redeemService.FindByStatus(c.Request.Context(), status, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": redeems})
}

// ResetRequest is the request body for POST /api/admin/reset
type ResetRequest struct {
	Name string `json:"name"`
}

// Reset handles POST /api/admin/reset. Destructive; routes gate it behind
// the developer role.
func (h *AdminHandler) Reset(c *gin.Context) {
	var req ResetRequest
	_ = c.ShouldBindJSON(&req)

	contest, err := h.contestService.Reset(c.Request.Context(), req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reset failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database reset. Contest re-seeded.",
		"contest": contest,
	})
}
