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

func TestUpdateStatus_Transitions(t *testing.T) {
	redeemRepo := memory.NewRedeemRepository()
	svc := NewRedeemService(redeemRepo)
	ctx := context.Background()

	participantID := primitive.NewObjectID()
	require.NoError(t, redeemRepo.Create(ctx, &models.Redeem{
		ParticipantID: participantID,
		PrizeID:       "p7",
		PrizeLabel:    "₹500 Voucher",
		Status:        models.RedeemStatusPending,
	}))

	claimed, err := svc.UpdateStatus(ctx, participantID, models.RedeemStatusClaimed, "")
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusClaimed, claimed.Status)
	assert.Empty(t, claimed.RejectionReason)

	rejected, err := svc.UpdateStatus(ctx, participantID, models.RedeemStatusRejected, "code did not match")
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusRejected, rejected.Status)
	assert.Equal(t, "code did not match", rejected.RejectionReason)

	// A non-rejection drops any stale reason.
	back, err := svc.UpdateStatus(ctx, participantID, models.RedeemStatusPending, "ignored")
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusPending, back.Status)
	assert.Empty(t, back.RejectionReason)
}

func TestUpdateStatus_Validation(t *testing.T) {
	svc := NewRedeemService(memory.NewRedeemRepository())
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, primitive.NewObjectID(), "shipped", "")
	assert.Error(t, err, "unknown status")

	_, err = svc.UpdateStatus(ctx, primitive.NewObjectID(), models.RedeemStatusClaimed, "")
	assert.ErrorIs(t, err, ErrParticipantNotFound, "no record for participant")
}

func TestFindByStatus_Pagination(t *testing.T) {
	redeemRepo := memory.NewRedeemRepository()
	svc := NewRedeemService(redeemRepo)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, redeemRepo.Create(ctx, &models.Redeem{
			ParticipantID: primitive.NewObjectID(),
			PrizeID:       "p8",
			Status:        models.RedeemStatusPending,
		}))
	}

	page1, err := svc.FindByStatus(ctx, models.RedeemStatusPending, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page1, 10)

	page2, err := svc.FindByStatus(ctx, models.RedeemStatusPending, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 5)

	none, err := svc.FindByStatus(ctx, models.RedeemStatusClaimed, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
