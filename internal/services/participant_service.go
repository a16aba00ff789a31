package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"github.com/yesbharath/spinwheel-backend/internal/utils"
)

// ParticipantStatus is the self-service view of a participant: their own
// record plus, when they have already won, the claim state of the prize.
type ParticipantStatus struct {
	Participant     *models.Participant `json:"participant"`
	MaskedPhone     string              `json:"maskedPhone"`
	RedeemStatus    models.RedeemStatus `json:"redeemStatus,omitempty"`
	RejectionReason string              `json:"rejectionReason,omitempty"`
}

// ParticipantService handles participant self-service operations
type ParticipantService struct {
	participantRepo repositories.ParticipantRepository
	redeemRepo      repositories.RedeemRepository
	rateLimits      *RateLimitService
}

// NewParticipantService creates a new ParticipantService
func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	redeemRepo repositories.RedeemRepository,
	rateLimits *RateLimitService,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		redeemRepo:      redeemRepo,
		rateLimits:      rateLimits,
	}
}

// Status returns the participant's current state for the wheel UI
func (s *ParticipantService) Status(ctx context.Context, id primitive.ObjectID) (*ParticipantStatus, error) {
	if err := s.rateLimits.CheckStatus(ctx, id.Hex()); err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}

	status := &ParticipantStatus{
		Participant: participant,
		MaskedPhone: utils.MaskPhone(participant.Phone),
	}
	if participant.HasSpun {
		redeem, err := s.redeemRepo.FindByParticipantID(ctx, id)
		if err == nil {
			status.RedeemStatus = redeem.Status
			status.RejectionReason = redeem.RejectionReason
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
	}
	return status, nil
}

// AgreeTerms records the participant's acceptance of the contest terms.
// Accepting twice is a no-op.
func (s *ParticipantService) AgreeTerms(ctx context.Context, id primitive.ObjectID) error {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrParticipantNotFound
		}
		return err
	}
	if participant.TermsAgreed {
		return nil
	}
	return s.participantRepo.SetTermsAgreed(ctx, id, time.Now())
}

// UpdateProfile changes the participant's display name. The phone number
// is the identity key and cannot be changed here.
func (s *ParticipantService) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string) (*models.Participant, error) {
	if len(name) < 2 {
		return nil, errors.New("valid name required")
	}
	if err := s.rateLimits.CheckProfileUpdate(ctx, id.Hex()); err != nil {
		return nil, err
	}

	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	participant.Name = name
	if err := s.participantRepo.Update(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}
