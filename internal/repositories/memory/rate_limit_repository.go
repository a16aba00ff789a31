package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile-time check to ensure RateLimitRepository implements the interface
var _ repositories.RateLimitRepository = (*RateLimitRepository)(nil)

// RateLimitRepository is an in-memory rate limit counter store
type RateLimitRepository struct {
	mu      sync.Mutex
	entries map[string]*models.RateLimitEntry
}

// NewRateLimitRepository creates an empty in-memory rate limit store
func NewRateLimitRepository() *RateLimitRepository {
	return &RateLimitRepository{
		entries: make(map[string]*models.RateLimitEntry),
	}
}

// FindByKey returns a copy of the entry for key
func (r *RateLimitRepository) FindByKey(ctx context.Context, key string) (*models.RateLimitEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// IncrementOrInsert bumps the counter for key under the lock
func (r *RateLimitRepository) IncrementOrInsert(ctx context.Context, key string, expiresAt time.Time) (*models.RateLimitEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		e = &models.RateLimitEntry{
			ID:        primitive.NewObjectID(),
			Key:       key,
			ExpiresAt: expiresAt,
			CreatedAt: time.Now(),
		}
		r.entries[key] = e
	}
	e.Count++
	e.UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

// SetBlock applies a block window to key
func (r *RateLimitRepository) SetBlock(ctx context.Context, key string, blockedUntil, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return repositories.ErrNotFound
	}
	e.BlockedUntil = blockedUntil
	e.ExpiresAt = expiresAt
	return nil
}

// DeleteByKey removes the entry for key
func (r *RateLimitRepository) DeleteByKey(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, key)
	return nil
}

// EnsureIndexes is a no-op for the in-memory store
func (r *RateLimitRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
