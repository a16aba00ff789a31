package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// RedeemService drives the in-store claim workflow from the admin panel
type RedeemService struct {
	redeemRepo repositories.RedeemRepository
}

// NewRedeemService creates a new RedeemService
func NewRedeemService(redeemRepo repositories.RedeemRepository) *RedeemService {
	return &RedeemService{redeemRepo: redeemRepo}
}

// UpdateStatus moves a participant's redemption to the given status. A
// rejection reason is only stored when the status is rejected.
func (s *RedeemService) UpdateStatus(ctx context.Context, participantID primitive.ObjectID, status models.RedeemStatus, rejectionReason string) (*models.Redeem, error) {
	switch status {
	case models.RedeemStatusPending, models.RedeemStatusClaimed, models.RedeemStatusRejected:
	default:
		return nil, fmt.Errorf("invalid redeem status %q", status)
	}
	if status != models.RedeemStatusRejected {
		rejectionReason = ""
	}

	redeem, err := s.redeemRepo.UpdateStatus(ctx, participantID, status, rejectionReason)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	slog.Info("redeem status updated", "participantId", participantID.Hex(), "status", status)
	return redeem, nil
}

// FindByStatus lists redemption records in a given state, paginated
func (s *RedeemService) FindByStatus(ctx context.Context, status models.RedeemStatus, page, limit int) ([]*models.Redeem, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return s.redeemRepo.FindByStatus(ctx, status, page, limit)
}
