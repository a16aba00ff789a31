package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("not found")

// ErrNoActiveContest is returned when no contest matches {active: true}
var ErrNoActiveContest = errors.New("no active contest")

// ContestRepository defines the interface for contest data operations.
// IncrementTotalSpins and DecrementPrizeStock are the only two operations
// in the system that require cross-worker atomicity; both map to a single
// storage-level read-modify-write.
type ContestRepository interface {
	Create(ctx context.Context, contest *models.Contest) error
	FindActive(ctx context.Context) (*models.Contest, error)
	// IncrementTotalSpins atomically increments the active contest's spin
	// counter and returns the new value (the ordinal N for this spin).
	// Returns ErrNoActiveContest if the contest is missing or inactive.
	IncrementTotalSpins(ctx context.Context, contestID primitive.ObjectID) (int64, error)
	// DecrementPrizeStock atomically decrements the tier's quantity and
	// increments its count, but only if quantity > 0. Returns false when
	// the stock was already exhausted.
	DecrementPrizeStock(ctx context.Context, contestID primitive.ObjectID, tierID string) (bool, error)
	SetPrizeQuantity(ctx context.Context, contestID primitive.ObjectID, tierID string, quantity int64) error
	DeleteAll(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error)
	FindByPhone(ctx context.Context, phone string) (*models.Participant, error)
	Update(ctx context.Context, participant *models.Participant) error
	// SetAllocation writes {hasSpun, prize, giftLabel, redeemCode} onto the
	// participant as a single atomic update.
	SetAllocation(ctx context.Context, id primitive.ObjectID, tierID, giftLabel, redeemCode string) error
	SetTermsAgreed(ctx context.Context, id primitive.ObjectID, agreedAt time.Time) error
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool, until time.Time) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindPage(ctx context.Context, q ParticipantQuery) ([]*models.ParticipantListItem, int64, error)
	Count(ctx context.Context) (int64, error)
	CountVerified(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

// ParticipantQuery describes a paginated admin listing request
type ParticipantQuery struct {
	Page      int
	Limit     int
	Search    string
	SortField string
	SortAsc   bool
}

// RedeemRepository defines the interface for redemption record operations
type RedeemRepository interface {
	Create(ctx context.Context, redeem *models.Redeem) error
	FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) (*models.Redeem, error)
	UpdateStatus(ctx context.Context, participantID primitive.ObjectID, status models.RedeemStatus, rejectionReason string) (*models.Redeem, error)
	FindByStatus(ctx context.Context, status models.RedeemStatus, page, limit int) ([]*models.Redeem, error)
	DeleteAll(ctx context.Context) error
}

// OtpRepository defines the interface for one-time password storage
type OtpRepository interface {
	Upsert(ctx context.Context, phone, code, tempName string, expiresAt time.Time) error
	FindByPhone(ctx context.Context, phone string) (*models.OtpEntry, error)
	DeleteByPhone(ctx context.Context, phone string) error
	EnsureIndexes(ctx context.Context) error
}

// AdminUserRepository defines the interface for admin user data operations
type AdminUserRepository interface {
	Create(ctx context.Context, admin *models.AdminUser) error
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	FindBySessionToken(ctx context.Context, token string) (*models.AdminUser, error)
	ReplaceSessions(ctx context.Context, id primitive.ObjectID, sessions []models.AdminSession) error
	RemoveSession(ctx context.Context, id primitive.ObjectID, token string) error
}

// RateLimitRepository defines the interface for rate limit counter storage
type RateLimitRepository interface {
	FindByKey(ctx context.Context, key string) (*models.RateLimitEntry, error)
	// IncrementOrInsert atomically increments the counter for key, creating
	// the window document (with the given expiry) if absent, and returns
	// the updated entry.
	IncrementOrInsert(ctx context.Context, key string, expiresAt time.Time) (*models.RateLimitEntry, error)
	SetBlock(ctx context.Context, key string, blockedUntil, expiresAt time.Time) error
	DeleteByKey(ctx context.Context, key string) error
	EnsureIndexes(ctx context.Context) error
}

// WinnerStoryRepository defines the interface for winner gallery operations
type WinnerStoryRepository interface {
	Create(ctx context.Context, story *models.WinnerStory) error
	FindAll(ctx context.Context) ([]*models.WinnerStory, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
