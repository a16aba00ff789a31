package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
)

func newParticipantFixture() (*ParticipantService, *memory.ParticipantRepository, *memory.RedeemRepository) {
	participantRepo := memory.NewParticipantRepository()
	redeemRepo := memory.NewRedeemRepository()
	rateLimits := NewRateLimitService(memory.NewRateLimitRepository())
	return NewParticipantService(participantRepo, redeemRepo, rateLimits), participantRepo, redeemRepo
}

func TestStatus_IncludesRedeemState(t *testing.T) {
	svc, participantRepo, redeemRepo := newParticipantFixture()
	ctx := context.Background()

	p := &models.Participant{Phone: "9876543210", Name: "Priya", TermsAgreed: true}
	require.NoError(t, participantRepo.Create(ctx, p))

	// Before spinning there is no redeem state.
	status, err := svc.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, status.Participant.HasSpun)
	assert.Empty(t, status.RedeemStatus)

	require.NoError(t, participantRepo.SetAllocation(ctx, p.ID, "p7", "₹500 Voucher", "YB-AB12CD"))
	require.NoError(t, redeemRepo.Create(ctx, &models.Redeem{
		ParticipantID: p.ID,
		PrizeID:       "p7",
		Status:        models.RedeemStatusClaimed,
	}))

	status, err = svc.Status(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, status.Participant.HasSpun)
	assert.Equal(t, "YB-AB12CD", status.Participant.RedeemCode)
	assert.Equal(t, "******3210", status.MaskedPhone)
	assert.Equal(t, models.RedeemStatusClaimed, status.RedeemStatus)
}

func TestStatus_UnknownParticipant(t *testing.T) {
	svc, _, _ := newParticipantFixture()
	_, err := svc.Status(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrParticipantNotFound)
}

func TestAgreeTerms_Idempotent(t *testing.T) {
	svc, participantRepo, _ := newParticipantFixture()
	ctx := context.Background()

	p := &models.Participant{Phone: "9876543210"}
	require.NoError(t, participantRepo.Create(ctx, p))

	require.NoError(t, svc.AgreeTerms(ctx, p.ID))
	stored, err := participantRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.TermsAgreed)
	firstAgreedAt := stored.TermsAgreedAt

	// Agreeing again keeps the original timestamp.
	require.NoError(t, svc.AgreeTerms(ctx, p.ID))
	stored, err = participantRepo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, firstAgreedAt, stored.TermsAgreedAt)
}

func TestUpdateProfile(t *testing.T) {
	svc, participantRepo, _ := newParticipantFixture()
	ctx := context.Background()

	p := &models.Participant{Phone: "9876543210", Name: "Priya"}
	require.NoError(t, participantRepo.Create(ctx, p))

	updated, err := svc.UpdateProfile(ctx, p.ID, "Priya S")
	require.NoError(t, err)
	assert.Equal(t, "Priya S", updated.Name)

	_, err = svc.UpdateProfile(ctx, p.ID, "P")
	assert.Error(t, err, "name too short")

	// The limiter allows 3 updates per hour; the first one above counts.
	_, err = svc.UpdateProfile(ctx, p.ID, "Priya 2")
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, p.ID, "Priya 3")
	require.NoError(t, err)
	_, err = svc.UpdateProfile(ctx, p.ID, "Priya 4")
	assert.ErrorIs(t, err, ErrRateLimited)
}
