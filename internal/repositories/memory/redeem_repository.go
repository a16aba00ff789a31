package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure RedeemRepository implements the interface
var _ repositories.RedeemRepository = (*RedeemRepository)(nil)

// RedeemRepository is an in-memory redemption record store
type RedeemRepository struct {
	mu      sync.Mutex
	redeems []*models.Redeem

	// Error injection
	CreateErr error
}

// NewRedeemRepository creates an empty in-memory redemption store
func NewRedeemRepository() *RedeemRepository {
	return &RedeemRepository{}
}

// Create stores a new redemption record
func (r *RedeemRepository) Create(ctx context.Context, redeem *models.Redeem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CreateErr != nil {
		return r.CreateErr
	}
	if redeem.ID.IsZero() {
		redeem.ID = primitive.NewObjectID()
	}
	redeem.CreatedAt = time.Now()
	redeem.UpdatedAt = time.Now()
	cp := *redeem
	r.redeems = append(r.redeems, &cp)
	return nil
}

// FindByParticipantID returns the first record for a participant
func (r *RedeemRepository) FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) (*models.Redeem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.redeems {
		if rec.ParticipantID == participantID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// UpdateStatus updates the status of a participant's record
func (r *RedeemRepository) UpdateStatus(ctx context.Context, participantID primitive.ObjectID, status models.RedeemStatus, rejectionReason string) (*models.Redeem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.redeems {
		if rec.ParticipantID == participantID {
			rec.Status = status
			rec.RejectionReason = ""
			if status == models.RedeemStatusRejected {
				rec.RejectionReason = rejectionReason
			}
			rec.UpdatedAt = time.Now()
			cp := *rec
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindByStatus returns records with the given status, paginated
func (r *RedeemRepository) FindByStatus(ctx context.Context, status models.RedeemStatus, page, limit int) ([]*models.Redeem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*models.Redeem
	for _, rec := range r.redeems {
		if rec.Status == status {
			cp := *rec
			matched = append(matched, &cp)
		}
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// DeleteAll clears the store
func (r *RedeemRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.redeems = nil
	return nil
}

// Count returns the number of stored records
func (r *RedeemRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.redeems)
}
