package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"github.com/yesbharath/spinwheel-backend/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SpinService is the allocation orchestrator. One call to Spin runs the
// whole transaction: eligibility -> ordinal reservation -> schedule ->
// stock check with filler fallback -> participant write + redemption
// record.
//
// All cross-worker coordination is delegated to the storage layer's atomic
// primitives (the ledger increment and the conditional stock decrement);
// the service itself holds no locks. Known limitation, preserved on
// purpose: a crash after the ordinal is reserved but before the
// participant write commits loses that ordinal (and possibly one unit of
// stock) with no compensation. The ordinal is never reissued and stock is
// never oversold, which is the invariant that matters; reconciling the
// loss would require a cross-document transaction this design avoids.
type SpinService struct {
	contestRepo     repositories.ContestRepository
	participantRepo repositories.ParticipantRepository
	redeemRepo      repositories.RedeemRepository
	rateLimits      *RateLimitService
	genRedeemCode   func() (string, error)
}

// NewSpinService creates a new SpinService
func NewSpinService(
	contestRepo repositories.ContestRepository,
	participantRepo repositories.ParticipantRepository,
	redeemRepo repositories.RedeemRepository,
	rateLimits *RateLimitService,
	genRedeemCode func() (string, error),
) *SpinService {
	return &SpinService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		redeemRepo:      redeemRepo,
		rateLimits:      rateLimits,
		genRedeemCode:   genRedeemCode,
	}
}

// Spin allocates a prize for the participant. Effectively-once: a second
// call for a participant who already spun returns ErrAlreadySpun together
// with the previously stored result, and performs no ledger or stock
// operation.
func (s *SpinService) Spin(ctx context.Context, participantID primitive.ObjectID) (*models.SpinResult, error) {
	// 1. Eligibility gate. Rejections here are side-effect free.
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	if participant.Blocked {
		metrics.SpinsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrNotEligible
	}
	if participant.HasSpun {
		metrics.SpinsTotal.WithLabelValues("rejected").Inc()
		return s.previousResult(ctx, participant)
	}
	if !participant.TermsAgreed {
		metrics.SpinsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrTermsNotAgreed
	}

	if s.rateLimits != nil {
		if err := s.rateLimits.CheckSpin(ctx, participant.Phone); err != nil {
			return nil, err
		}
	}

	// 2. Reserve the ordinal. The atomic increment is the commit point:
	// from here on this spin owns ordinal N exclusively.
	contest, err := s.contestRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveContest) {
			return nil, ErrContestInactive
		}
		slog.Error("failed to look up active contest", "error", err)
		return nil, ErrServiceUnavailable
	}

	ordinal, err := s.contestRepo.IncrementTotalSpins(ctx, contest.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveContest) {
			return nil, ErrContestInactive
		}
		slog.Error("spin ledger unavailable", "error", err, "contestId", contest.ID.Hex())
		metrics.SpinsTotal.WithLabelValues("error").Inc()
		return nil, ErrServiceUnavailable
	}

	// 3. Schedule the tier for N. Pure, cannot fail.
	tierID := ScheduleTierFor(ordinal)

	// 4. Consume stock. The schedule may nominate a tier an admin has since
	// depleted, so the conditional decrement is checked regardless, with a
	// single fallback to the unlimited filler tier.
	awarded := tierID
	ok, err := s.contestRepo.DecrementPrizeStock(ctx, contest.ID, tierID)
	if err != nil {
		slog.Error("stock decrement failed", "error", err, "tier", tierID, "spin", ordinal)
		metrics.SpinsTotal.WithLabelValues("error").Inc()
		return nil, ErrServiceUnavailable
	}
	if !ok {
		slog.Warn("scheduled tier out of stock, falling back to filler",
			"spin", ordinal, "scheduled", tierID)
		metrics.StockFallbacks.Inc()
		awarded = FillerTierID
		ok, err = s.contestRepo.DecrementPrizeStock(ctx, contest.ID, FillerTierID)
		if err != nil {
			slog.Error("filler stock decrement failed", "error", err, "spin", ordinal)
			metrics.SpinsTotal.WithLabelValues("error").Inc()
			return nil, ErrServiceUnavailable
		}
		if !ok {
			// The filler tier is provisioned far beyond any realistic
			// participation; reaching this means the contest is
			// misconfigured.
			slog.Error("filler tier exhausted, contest misconfigured", "spin", ordinal)
			metrics.SpinsTotal.WithLabelValues("error").Inc()
			return nil, ErrInventoryExhausted
		}
	}

	tier := contest.FindPrize(awarded)
	if tier == nil {
		slog.Error("awarded tier missing from contest document", "tier", awarded)
		metrics.SpinsTotal.WithLabelValues("error").Inc()
		return nil, ErrServiceUnavailable
	}

	// 5. Record the outcome: one atomic write on the participant, then the
	// redemption record.
	redeemCode, err := s.genRedeemCode()
	if err != nil {
		slog.Error("redeem code generation failed", "error", err)
		metrics.SpinsTotal.WithLabelValues("error").Inc()
		return nil, ErrServiceUnavailable
	}

	if err := s.participantRepo.SetAllocation(ctx, participant.ID, awarded, tier.Label, redeemCode); err != nil {
		slog.Error("participant allocation write failed", "error", err,
			"participantId", participant.ID.Hex(), "spin", ordinal)
		metrics.SpinsTotal.WithLabelValues("error").Inc()
		return nil, ErrServiceUnavailable
	}

	redeem := &models.Redeem{
		ParticipantID: participant.ID,
		PrizeID:       awarded,
		PrizeLabel:    tier.Label,
		Status:        models.RedeemStatusPending,
		Contact: models.RedeemContact{
			Name:  participant.Name,
			Phone: participant.Phone,
		},
	}
	if err := s.redeemRepo.Create(ctx, redeem); err != nil {
		// The allocation itself is committed; the admin panel upserts the
		// record on status change, so log and keep the spin successful.
		slog.Error("redemption record insert failed", "error", err,
			"participantId", participant.ID.Hex())
	}

	slog.Info("spin allocated", "spin", ordinal, "tier", awarded,
		"participantId", participant.ID.Hex())
	metrics.SpinsTotal.WithLabelValues("allocated").Inc()
	metrics.PrizesAwarded.WithLabelValues(awarded).Inc()

	return &models.SpinResult{
		TierID:          awarded,
		Label:           tier.Label,
		RedeemCode:      redeemCode,
		RedeemCondition: tier.RedeemCondition,
		Angle:           tier.Angle,
		SpinNumber:      ordinal,
	}, nil
}

// previousResult rebuilds the stored outcome for an already-spun
// participant so repeated calls stay idempotent.
func (s *SpinService) previousResult(ctx context.Context, participant *models.Participant) (*models.SpinResult, error) {
	result := &models.SpinResult{
		TierID:     participant.Prize,
		Label:      participant.GiftLabel,
		RedeemCode: participant.RedeemCode,
	}
	if contest, err := s.contestRepo.FindActive(ctx); err == nil {
		if tier := contest.FindPrize(participant.Prize); tier != nil {
			result.Angle = tier.Angle
			result.RedeemCondition = tier.RedeemCondition
		}
	}
	return result, ErrAlreadySpun
}
