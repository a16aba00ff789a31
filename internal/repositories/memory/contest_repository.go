// Package memory provides mutex-guarded in-memory implementations of the
// repository interfaces. They back the service tests: the allocation
// concurrency properties need counters with real atomic semantics, not
// canned returns, and each repository also allows injecting errors to
// exercise failure paths.
package memory

import (
	"context"
	"sync"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure ContestRepository implements the interface
var _ repositories.ContestRepository = (*ContestRepository)(nil)

// ContestRepository is an in-memory contest store
type ContestRepository struct {
	mu      sync.Mutex
	contest *models.Contest

	// Error injection
	IncrementErr error
	DecrementErr error
	FindErr      error
}

// NewContestRepository creates an empty in-memory contest store
func NewContestRepository() *ContestRepository {
	return &ContestRepository{}
}

// Create stores the contest (a single contest is enough for tests)
func (r *ContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if contest.ID.IsZero() {
		contest.ID = primitive.NewObjectID()
	}
	r.contest = contest
	return nil
}

// FindActive returns the stored contest if it is active
func (r *ContestRepository) FindActive(ctx context.Context) (*models.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FindErr != nil {
		return nil, r.FindErr
	}
	if r.contest == nil || !r.contest.Active {
		return nil, repositories.ErrNoActiveContest
	}
	c := *r.contest
	c.Prizes = append([]models.PrizeTier(nil), r.contest.Prizes...)
	return &c, nil
}

// IncrementTotalSpins increments the spin counter under the lock and
// returns the new ordinal.
func (r *ContestRepository) IncrementTotalSpins(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.IncrementErr != nil {
		return 0, r.IncrementErr
	}
	if r.contest == nil || r.contest.ID != contestID || !r.contest.Active {
		return 0, repositories.ErrNoActiveContest
	}
	r.contest.TotalSpins++
	return r.contest.TotalSpins, nil
}

// DecrementPrizeStock decrements a tier's quantity if positive, bumping
// count in the same critical section.
func (r *ContestRepository) DecrementPrizeStock(ctx context.Context, contestID primitive.ObjectID, tierID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DecrementErr != nil {
		return false, r.DecrementErr
	}
	if r.contest == nil || r.contest.ID != contestID {
		return false, repositories.ErrNotFound
	}
	tier := r.contest.FindPrize(tierID)
	if tier == nil || tier.Quantity <= 0 {
		return false, nil
	}
	tier.Quantity--
	tier.Count++
	return true, nil
}

// SetPrizeQuantity sets a tier's remaining stock
func (r *ContestRepository) SetPrizeQuantity(ctx context.Context, contestID primitive.ObjectID, tierID string, quantity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contest == nil || r.contest.ID != contestID {
		return repositories.ErrNotFound
	}
	tier := r.contest.FindPrize(tierID)
	if tier == nil {
		return repositories.ErrNotFound
	}
	tier.Quantity = quantity
	return nil
}

// DeleteAll clears the store
func (r *ContestRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contest = nil
	return nil
}

// EnsureIndexes is a no-op for the in-memory store
func (r *ContestRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

// Snapshot returns a copy of the stored contest for assertions
func (r *ContestRepository) Snapshot() *models.Contest {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.contest == nil {
		return nil
	}
	c := *r.contest
	c.Prizes = append([]models.PrizeTier(nil), r.contest.Prizes...)
	return &c
}
