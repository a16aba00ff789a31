package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/services"
)

// WinnerStoryHandler handles the winner gallery endpoints
type WinnerStoryHandler struct {
	storyService *services.WinnerStoryService
}

// NewWinnerStoryHandler creates a new WinnerStoryHandler
func NewWinnerStoryHandler(storyService *services.WinnerStoryService) *WinnerStoryHandler {
	return &WinnerStoryHandler{storyService: storyService}
}

// List handles GET /api/winner-stories (public)
func (h *WinnerStoryHandler) List(c *gin.Context) {
	stories, err := h.storyService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stories})
}

// AddStoryRequest is the request body for POST /api/admin/winner-stories
type AddStoryRequest struct {
	ImageURL   string `json:"imageUrl" binding:"required"`
	PrizeLabel string `json:"prizeLabel"`
	Priority   int    `json:"priority"`
}

// Add handles POST /api/admin/winner-stories
func (h *WinnerStoryHandler) Add(c *gin.Context) {
	var req AddStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		return
	}

	story, err := h.storyService.Add(c.Request.Context(), req.ImageURL, req.PrizeLabel, req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": story})
}

// Remove handles DELETE /api/admin/winner-stories/:id
func (h *WinnerStoryHandler) Remove(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.storyService.Remove(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
