package memory

import (
	"context"
	"sync"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// Compile-time check to ensure OtpRepository implements the interface
var _ repositories.OtpRepository = (*OtpRepository)(nil)

// OtpRepository is an in-memory OTP store
type OtpRepository struct {
	mu      sync.Mutex
	entries map[string]*models.OtpEntry
}

// NewOtpRepository creates an empty in-memory OTP store
func NewOtpRepository() *OtpRepository {
	return &OtpRepository{
		entries: make(map[string]*models.OtpEntry),
	}
}

// Upsert stores or replaces the pending OTP for a phone number
func (r *OtpRepository) Upsert(ctx context.Context, phone, code, tempName string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[phone] = &models.OtpEntry{
		Phone:     phone,
		Code:      code,
		TempName:  tempName,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	return nil
}

// FindByPhone returns a copy of the pending OTP for a phone number
func (r *OtpRepository) FindByPhone(ctx context.Context, phone string) (*models.OtpEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[phone]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// DeleteByPhone removes the pending OTP for a phone number
func (r *OtpRepository) DeleteByPhone(ctx context.Context, phone string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, phone)
	return nil
}

// EnsureIndexes is a no-op for the in-memory store
func (r *OtpRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}
