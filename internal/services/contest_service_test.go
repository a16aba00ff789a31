package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
)

func newContestFixture() (*ContestService, *memory.ContestRepository, *memory.ParticipantRepository) {
	contestRepo := memory.NewContestRepository()
	participantRepo := memory.NewParticipantRepository()
	redeemRepo := memory.NewRedeemRepository()
	return NewContestService(contestRepo, participantRepo, redeemRepo), contestRepo, participantRepo
}

func TestSeed_CreatesReferenceContest(t *testing.T) {
	svc, contestRepo, _ := newContestFixture()

	contest, err := svc.Seed(context.Background(), "Launch Event Contest")
	require.NoError(t, err)

	assert.Equal(t, "Launch Event Contest", contest.Name)
	assert.True(t, contest.Active)
	assert.Equal(t, int64(0), contest.TotalSpins)
	require.Len(t, contest.Prizes, 8)

	// Fresh stock, no awards yet.
	for _, tier := range contest.Prizes {
		assert.Equal(t, int64(0), tier.Count, "tier %s", tier.TierID)
		assert.Positive(t, tier.Quantity, "tier %s", tier.TierID)
	}
	assert.Equal(t, int64(999999), contest.FindPrize("p8").Quantity)

	stored, err := contestRepo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contest.ID, stored.ID)
}

func TestStats_CollectsCounts(t *testing.T) {
	svc, _, participantRepo := newContestFixture()
	ctx := context.Background()

	_, err := svc.Seed(ctx, "")
	require.NoError(t, err)

	require.NoError(t, participantRepo.Create(ctx, &models.Participant{Phone: "9876543210", PhoneVerified: true}))
	require.NoError(t, participantRepo.Create(ctx, &models.Participant{Phone: "9876543211"}))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalParticipants)
	assert.Equal(t, int64(1), stats.TotalVerified)
	assert.Len(t, stats.Prizes, 8)
}

func TestStats_NoActiveContest(t *testing.T) {
	svc, _, _ := newContestFixture()
	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, ErrContestInactive)
}

func TestSetPrizeQuantity(t *testing.T) {
	svc, contestRepo, _ := newContestFixture()
	ctx := context.Background()

	_, err := svc.Seed(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.SetPrizeQuantity(ctx, "p7", 25))
	assert.Equal(t, int64(25), contestRepo.Snapshot().FindPrize("p7").Quantity)

	assert.Error(t, svc.SetPrizeQuantity(ctx, "p99", 5), "unknown tier")
	assert.Error(t, svc.SetPrizeQuantity(ctx, "p7", -1), "negative quantity")
}

func TestReset_WipesAndReseeds(t *testing.T) {
	svc, contestRepo, participantRepo := newContestFixture()
	ctx := context.Background()

	old, err := svc.Seed(ctx, "old")
	require.NoError(t, err)
	require.NoError(t, participantRepo.Create(ctx, &models.Participant{Phone: "9876543210"}))

	fresh, err := svc.Reset(ctx, "fresh")
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, fresh.ID)
	assert.Equal(t, "fresh", fresh.Name)
	assert.Equal(t, int64(0), fresh.TotalSpins)

	count, err := participantRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "participants wiped")

	stored, err := contestRepo.FindActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, stored.ID)
}
