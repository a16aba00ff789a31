package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// WinnerStoryService manages the public winner photo gallery
type WinnerStoryService struct {
	storyRepo repositories.WinnerStoryRepository
}

// NewWinnerStoryService creates a new WinnerStoryService
func NewWinnerStoryService(storyRepo repositories.WinnerStoryRepository) *WinnerStoryService {
	return &WinnerStoryService{storyRepo: storyRepo}
}

// List returns the gallery ordered by priority then recency
func (s *WinnerStoryService) List(ctx context.Context) ([]*models.WinnerStory, error) {
	return s.storyRepo.FindAll(ctx)
}

// Add publishes a new gallery entry
func (s *WinnerStoryService) Add(ctx context.Context, imageURL, prizeLabel string, priority int) (*models.WinnerStory, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("image url required")
	}
	if priority < 1 {
		priority = 1
	}
	story := &models.WinnerStory{
		ID:         primitive.NewObjectID(),
		ImageURL:   imageURL,
		PrizeLabel: prizeLabel,
		Priority:   priority,
		UploadedAt: time.Now(),
	}
	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}
	return story, nil
}

// Remove deletes a gallery entry
func (s *WinnerStoryService) Remove(ctx context.Context, id primitive.ObjectID) error {
	return s.storyRepo.Delete(ctx, id)
}
