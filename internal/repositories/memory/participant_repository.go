package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure ParticipantRepository implements the interface
var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository is an in-memory participant store
type ParticipantRepository struct {
	mu           sync.Mutex
	participants map[primitive.ObjectID]*models.Participant

	// Error injection
	SetAllocationErr error
}

// NewParticipantRepository creates an empty in-memory participant store
func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{
		participants: make(map[primitive.ObjectID]*models.Participant),
	}
}

// Create stores a new participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if participant.ID.IsZero() {
		participant.ID = primitive.NewObjectID()
	}
	participant.CreatedAt = time.Now()
	participant.UpdatedAt = time.Now()
	cp := *participant
	r.participants[participant.ID] = &cp
	return nil
}

// FindByID returns a copy of the stored participant
func (r *ParticipantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// FindByPhone returns a copy of the participant with the given phone
func (r *ParticipantRepository) FindByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.Phone == phone {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Update replaces the stored participant
func (r *ParticipantRepository) Update(ctx context.Context, participant *models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.participants[participant.ID]; !ok {
		return repositories.ErrNotFound
	}
	participant.UpdatedAt = time.Now()
	cp := *participant
	r.participants[participant.ID] = &cp
	return nil
}

// SetAllocation writes the spin outcome fields in one critical section
func (r *ParticipantRepository) SetAllocation(ctx context.Context, id primitive.ObjectID, tierID, giftLabel, redeemCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SetAllocationErr != nil {
		return r.SetAllocationErr
	}
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.HasSpun = true
	p.Prize = tierID
	p.GiftLabel = giftLabel
	p.RedeemCode = redeemCode
	p.UpdatedAt = time.Now()
	return nil
}

// SetTermsAgreed marks terms agreement
func (r *ParticipantRepository) SetTermsAgreed(ctx context.Context, id primitive.ObjectID, agreedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.TermsAgreed = true
	p.TermsAgreedAt = agreedAt
	return nil
}

// SetBlocked updates the blocked flag
func (r *ParticipantRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Blocked = blocked
	p.BlockedUntil = until
	return nil
}

// Delete removes a participant
func (r *ParticipantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.participants, id)
	return nil
}

// FindPage returns a filtered, unsorted page (enough for handler tests)
func (r *ParticipantRepository) FindPage(ctx context.Context, q repositories.ParticipantQuery) ([]*models.ParticipantListItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []*models.ParticipantListItem
	for _, p := range r.participants {
		if q.Search != "" && !strings.Contains(p.Name, q.Search) && !strings.Contains(p.Phone, q.Search) {
			continue
		}
		items = append(items, &models.ParticipantListItem{
			ID:            p.ID,
			Name:          p.Name,
			Phone:         p.Phone,
			PhoneVerified: p.PhoneVerified,
			HasSpun:       p.HasSpun,
			GiftLabel:     p.GiftLabel,
			RedeemCode:    p.RedeemCode,
			Blocked:       p.Blocked,
			CreatedAt:     p.CreatedAt,
		})
	}
	return items, int64(len(items)), nil
}

// Count returns the number of stored participants
func (r *ParticipantRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.participants)), nil
}

// CountVerified returns the number of verified participants
func (r *ParticipantRepository) CountVerified(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, p := range r.participants {
		if p.PhoneVerified {
			n++
		}
	}
	return n, nil
}

// DeleteAll clears the store
func (r *ParticipantRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants = make(map[primitive.ObjectID]*models.Participant)
	return nil
}

// EnsureIndexes is a no-op for the in-memory store
func (r *ParticipantRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
