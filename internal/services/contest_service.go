package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// ReferencePrizes is the provisioning table for a fresh contest. The order
// matches the wheel segments; p8 is the effectively unlimited filler.
var ReferencePrizes = []models.PrizeTier{
	{TierID: "p1", Label: "iPhone 17", Quantity: 1, Angle: 0, Type: "iphone", RedeemCondition: "Grand Prize! Collect from Store"},
	{TierID: "p2", Label: "Haier Smart TV", Quantity: 1, Angle: 45, Type: "gift", RedeemCondition: "Collect from Store"},
	{TierID: "p3", Label: "iBell Airfryer", Quantity: 10, Angle: 90, Type: "gift", RedeemCondition: "Collect from Store"},
	{TierID: "p4", Label: "JBL GO Speaker", Quantity: 4, Angle: 135, Type: "gift", RedeemCondition: "Collect from Store"},
	{TierID: "p5", Label: "Shirt", Quantity: 50, Angle: 180, Type: "gift", RedeemCondition: "Collect from Store"},
	{TierID: "p6", Label: "Saree", Quantity: 50, Angle: 225, Type: "gift", RedeemCondition: "Collect from Store"},
	{TierID: "p7", Label: "₹500 Voucher", Quantity: 1000, Angle: 270, Type: "coupon", RedeemCondition: "Min purchase ₹5000"},
	{TierID: "p8", Label: "₹100 Voucher", Quantity: 999999, Angle: 315, Type: "coupon", RedeemCondition: "Min purchase ₹1000"},
}

// ContestStats is the admin dashboard snapshot
type ContestStats struct {
	Prizes            []models.PrizeTier `json:"prizes"`
	TotalSpins        int64              `json:"totalSpins"`
	TotalParticipants int64              `json:"totalParticipants"`
	TotalVerified     int64              `json:"totalVerified"`
}

// ContestService handles contest lifecycle and dashboard reads
type ContestService struct {
	contestRepo     repositories.ContestRepository
	participantRepo repositories.ParticipantRepository
	redeemRepo      repositories.RedeemRepository
}

// NewContestService creates a new ContestService
func NewContestService(
	contestRepo repositories.ContestRepository,
	participantRepo repositories.ParticipantRepository,
	redeemRepo repositories.RedeemRepository,
) *ContestService {
	return &ContestService{
		contestRepo:     contestRepo,
		participantRepo: participantRepo,
		redeemRepo:      redeemRepo,
	}
}

// ActiveContest returns the single active contest
func (s *ContestService) ActiveContest(ctx context.Context) (*models.Contest, error) {
	contest, err := s.contestRepo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveContest) || errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrContestInactive
		}
		return nil, err
	}
	return contest, nil
}

// Stats collects the dashboard snapshot: prize stock, the spin ledger and
// participant counts. The counts come from separate queries so the numbers
// may be a moment apart; the dashboard tolerates that.
func (s *ContestService) Stats(ctx context.Context) (*ContestStats, error) {
	contest, err := s.ActiveContest(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.participantRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := s.participantRepo.CountVerified(ctx)
	if err != nil {
		return nil, err
	}
	return &ContestStats{
		Prizes:            contest.Prizes,
		TotalSpins:        contest.TotalSpins,
		TotalParticipants: total,
		TotalVerified:     verified,
	}, nil
}

// SetPrizeQuantity restocks or drains a tier without touching its count
func (s *ContestService) SetPrizeQuantity(ctx context.Context, tierID string, quantity int64) error {
	if quantity < 0 {
		return fmt.Errorf("quantity must be non-negative")
	}
	contest, err := s.ActiveContest(ctx)
	if err != nil {
		return err
	}
	if contest.FindPrize(tierID) == nil {
		return fmt.Errorf("unknown prize tier %q", tierID)
	}
	slog.Info("prize quantity updated", "tier", tierID, "quantity", quantity)
	return s.contestRepo.SetPrizeQuantity(ctx, contest.ID, tierID, quantity)
}

// Reset wipes participants, redemptions and contests, then reseeds a fresh
// contest with the reference prize table. Destructive; the handler gates it
// behind the developer role.
func (s *ContestService) Reset(ctx context.Context, name string) (*models.Contest, error) {
	if err := s.participantRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := s.redeemRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear redemptions: %w", err)
	}
	if err := s.contestRepo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear contests: %w", err)
	}
	return s.Seed(ctx, name)
}

// Seed creates a fresh active contest with the reference prize table
func (s *ContestService) Seed(ctx context.Context, name string) (*models.Contest, error) {
	if name == "" {
		name = "YB Lucky Wheel"
	}
	prizes := make([]models.PrizeTier, len(ReferencePrizes))
	copy(prizes, ReferencePrizes)

	contest := &models.Contest{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Active:    true,
		Prizes:    prizes,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.contestRepo.Create(ctx, contest); err != nil {
		return nil, err
	}
	slog.Info("contest seeded", "name", name, "tiers", len(prizes))
	return contest, nil
}
