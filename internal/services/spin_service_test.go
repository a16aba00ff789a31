package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories/memory"
	"github.com/yesbharath/spinwheel-backend/internal/utils"
)

type spinFixture struct {
	contestRepo     *memory.ContestRepository
	participantRepo *memory.ParticipantRepository
	redeemRepo      *memory.RedeemRepository
	service         *SpinService
	contest         *models.Contest
}

func newSpinFixture(t *testing.T) *spinFixture {
	t.Helper()

	contestRepo := memory.NewContestRepository()
	participantRepo := memory.NewParticipantRepository()
	redeemRepo := memory.NewRedeemRepository()
	rateLimits := NewRateLimitService(memory.NewRateLimitRepository())

	prizes := make([]models.PrizeTier, len(ReferencePrizes))
	copy(prizes, ReferencePrizes)
	contest := &models.Contest{
		Name:   "test contest",
		Active: true,
		Prizes: prizes,
	}
	require.NoError(t, contestRepo.Create(context.Background(), contest))

	service := NewSpinService(contestRepo, participantRepo, redeemRepo, rateLimits, utils.GenerateRedeemCode)

	return &spinFixture{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		redeemRepo:      redeemRepo,
		service:         service,
		contest:         contest,
	}
}

func (f *spinFixture) addParticipant(t *testing.T, phone string, termsAgreed bool) *models.Participant {
	t.Helper()
	p := &models.Participant{
		Name:          "Tester",
		Phone:         phone,
		PhoneVerified: true,
		TermsAgreed:   termsAgreed,
	}
	require.NoError(t, f.participantRepo.Create(context.Background(), p))
	return p
}

func TestSpin_AllocatesFirstSpin(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)

	result, err := f.service.Spin(context.Background(), p.ID)
	require.NoError(t, err)

	// Ordinal 1 matches no progression, so the filler tier wins.
	assert.Equal(t, "p8", result.TierID)
	assert.Equal(t, int64(1), result.SpinNumber)
	assert.Regexp(t, `^YB-[0-9A-Z]{6}$`, result.RedeemCode)
	assert.NotEmpty(t, result.Label)

	stored, err := f.participantRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasSpun)
	assert.Equal(t, "p8", stored.Prize)
	assert.Equal(t, result.RedeemCode, stored.RedeemCode)

	redeem, err := f.redeemRepo.FindByParticipantID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RedeemStatusPending, redeem.Status)
	assert.Equal(t, "p8", redeem.PrizeID)
	assert.Equal(t, p.Phone, redeem.Contact.Phone)
}

func TestSpin_SecondSpinReturnsStoredResult(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)

	first, err := f.service.Spin(context.Background(), p.ID)
	require.NoError(t, err)

	second, err := f.service.Spin(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrAlreadySpun)
	require.NotNil(t, second)
	assert.Equal(t, first.TierID, second.TierID)
	assert.Equal(t, first.RedeemCode, second.RedeemCode)

	// No ledger or stock movement on the repeat.
	snap := f.contestRepo.Snapshot()
	assert.Equal(t, int64(1), snap.TotalSpins)
	assert.Equal(t, int64(1), snap.FindPrize("p8").Count)
}

func TestSpin_EligibilityGates(t *testing.T) {
	f := newSpinFixture(t)

	t.Run("unknown participant", func(t *testing.T) {
		_, err := f.service.Spin(context.Background(), primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})

	t.Run("terms not agreed", func(t *testing.T) {
		p := f.addParticipant(t, "9876500001", false)
		_, err := f.service.Spin(context.Background(), p.ID)
		assert.ErrorIs(t, err, ErrTermsNotAgreed)
	})

	t.Run("blocked participant", func(t *testing.T) {
		p := f.addParticipant(t, "9876500002", true)
		require.NoError(t, f.participantRepo.SetBlocked(context.Background(), p.ID, true, time.Now().Add(time.Hour)))
		_, err := f.service.Spin(context.Background(), p.ID)
		assert.ErrorIs(t, err, ErrNotEligible)
	})

	// Gate rejections must leave the ledger untouched.
	assert.Equal(t, int64(0), f.contestRepo.Snapshot().TotalSpins)
}

func TestSpin_NoActiveContest(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)
	require.NoError(t, f.contestRepo.DeleteAll(context.Background()))

	_, err := f.service.Spin(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrContestInactive)
}

func TestSpin_LedgerUnavailable(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)
	f.contestRepo.IncrementErr = errors.New("primary stepped down")

	_, err := f.service.Spin(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSpin_AllocationWriteFailure(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)
	f.participantRepo.SetAllocationErr = errors.New("write concern failed")

	_, err := f.service.Spin(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestSpin_RedeemInsertFailureKeepsSpin(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)
	f.redeemRepo.CreateErr = errors.New("collection unavailable")

	result, err := f.service.Spin(context.Background(), p.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, result.RedeemCode)

	stored, err := f.participantRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasSpun)
	assert.Equal(t, 0, f.redeemRepo.Count())
}

func TestSpin_FallbackWhenScheduledTierExhausted(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)

	// Position the ledger so this spin draws ordinal 50 (a p7 voucher),
	// then drain p7.
	f.contest.TotalSpins = 49
	require.NoError(t, f.contestRepo.Create(context.Background(), f.contest))
	require.NoError(t, f.contestRepo.SetPrizeQuantity(context.Background(), f.contest.ID, "p7", 0))

	result, err := f.service.Spin(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "p8", result.TierID)
	assert.Equal(t, int64(50), result.SpinNumber)

	snap := f.contestRepo.Snapshot()
	assert.Equal(t, int64(0), snap.FindPrize("p7").Count, "exhausted tier must not be awarded")
	assert.Equal(t, int64(1), snap.FindPrize("p8").Count)
}

func TestSpin_InventoryExhausted(t *testing.T) {
	f := newSpinFixture(t)
	p := f.addParticipant(t, "9876543210", true)
	require.NoError(t, f.contestRepo.SetPrizeQuantity(context.Background(), f.contest.ID, "p8", 0))

	_, err := f.service.Spin(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrInventoryExhausted)
}

// Concurrent spins must each receive a distinct ordinal covering exactly
// 1..K, and stock must be conserved tier by tier.
func TestSpin_ConcurrentOrdinalsAreDistinct(t *testing.T) {
	const k = 60

	f := newSpinFixture(t)
	ids := make([]primitive.ObjectID, k)
	for i := 0; i < k; i++ {
		ids[i] = f.addParticipant(t, fmt.Sprintf("98765%05d", i), true).ID
	}

	results := make([]*models.SpinResult, k)
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.service.Spin(context.Background(), ids[i])
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, k)
	for i := 0; i < k; i++ {
		require.NoError(t, errs[i], "spin %d", i)
		require.NotNil(t, results[i])
		assert.False(t, seen[results[i].SpinNumber], "duplicate ordinal %d", results[i].SpinNumber)
		seen[results[i].SpinNumber] = true
		assert.GreaterOrEqual(t, results[i].SpinNumber, int64(1))
		assert.LessOrEqual(t, results[i].SpinNumber, int64(k))
	}
	assert.Len(t, seen, k)

	snap := f.contestRepo.Snapshot()
	assert.Equal(t, int64(k), snap.TotalSpins)

	var awarded int64
	for i, tier := range snap.Prizes {
		initial := ReferencePrizes[i].Quantity
		assert.Equal(t, initial, tier.Quantity+tier.Count,
			"tier %s stock not conserved", tier.TierID)
		awarded += tier.Count
	}
	assert.Equal(t, int64(k), awarded, "every spin awards exactly one unit")
}

// With limited filler stock, concurrent spins must never oversell: exactly
// quantity spins succeed and the rest fail cleanly.
func TestSpin_ConcurrentNoOversell(t *testing.T) {
	const k = 20
	const stock = 7

	f := newSpinFixture(t)
	require.NoError(t, f.contestRepo.SetPrizeQuantity(context.Background(), f.contest.ID, "p8", stock))

	ids := make([]primitive.ObjectID, k)
	for i := 0; i < k; i++ {
		ids[i] = f.addParticipant(t, fmt.Sprintf("98765%05d", i), true).ID
	}

	errs := make([]error, k)
	var wg sync.WaitGroup
	for i := 0; i < k; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.Spin(context.Background(), ids[i])
		}(i)
	}
	wg.Wait()

	var succeeded, exhausted int
	for i := 0; i < k; i++ {
		switch {
		case errs[i] == nil:
			succeeded++
		case errors.Is(errs[i], ErrInventoryExhausted):
			exhausted++
		default:
			t.Fatalf("unexpected error: %v", errs[i])
		}
	}
	assert.Equal(t, stock, succeeded)
	assert.Equal(t, k-stock, exhausted)

	snap := f.contestRepo.Snapshot()
	assert.Equal(t, int64(0), snap.FindPrize("p8").Quantity)
	assert.Equal(t, int64(stock), snap.FindPrize("p8").Count)
}

// The single-quantity grand prize tier must be awarded at most once even
// when the scheduled ordinal is contested by a stale stock read.
func TestSpin_SingleUnitTierAwardedOnce(t *testing.T) {
	f := newSpinFixture(t)

	// Two back-to-back spins at ordinals 50 and 100 both schedule p7;
	// leave p7 one unit so the second must fall back.
	f.contest.TotalSpins = 49
	require.NoError(t, f.contestRepo.Create(context.Background(), f.contest))
	require.NoError(t, f.contestRepo.SetPrizeQuantity(context.Background(), f.contest.ID, "p7", 1))

	p1 := f.addParticipant(t, "9876543210", true)
	first, err := f.service.Spin(context.Background(), p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "p7", first.TierID)

	f.contest = f.contestRepo.Snapshot()
	f.contest.TotalSpins = 99
	require.NoError(t, f.contestRepo.Create(context.Background(), f.contest))

	p2 := f.addParticipant(t, "9876543211", true)
	second, err := f.service.Spin(context.Background(), p2.ID)
	require.NoError(t, err)
	assert.Equal(t, "p8", second.TierID, "drained tier falls back to filler")

	snap := f.contestRepo.Snapshot()
	assert.Equal(t, int64(1), snap.FindPrize("p7").Count)
}
