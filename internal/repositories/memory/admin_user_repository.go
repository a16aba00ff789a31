package memory

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
)

// Compile-time check to ensure AdminUserRepository implements the interface
var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

// AdminUserRepository is an in-memory admin user store
type AdminUserRepository struct {
	mu     sync.Mutex
	admins map[primitive.ObjectID]*models.AdminUser
}

// NewAdminUserRepository creates an empty in-memory admin store
func NewAdminUserRepository() *AdminUserRepository {
	return &AdminUserRepository{admins: make(map[primitive.ObjectID]*models.AdminUser)}
}

// Create stores the admin user
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if admin.ID.IsZero() {
		admin.ID = primitive.NewObjectID()
	}
	admin.CreatedAt = time.Now()
	cp := *admin
	r.admins[admin.ID] = &cp
	return nil
}

// FindByUsername returns the admin with the given username
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			cp := *a
			cp.ActiveSessions = append([]models.AdminSession(nil), a.ActiveSessions...)
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// FindBySessionToken returns the admin holding an active session token
func (r *AdminUserRepository) FindBySessionToken(ctx context.Context, token string) (*models.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		for _, s := range a.ActiveSessions {
			if s.Token == token {
				cp := *a
				cp.ActiveSessions = append([]models.AdminSession(nil), a.ActiveSessions...)
				return &cp, nil
			}
		}
	}
	return nil, repositories.ErrNotFound
}

// ReplaceSessions swaps the admin's session list wholesale
func (r *AdminUserRepository) ReplaceSessions(ctx context.Context, id primitive.ObjectID, sessions []models.AdminSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	a.ActiveSessions = append([]models.AdminSession(nil), sessions...)
	a.UpdatedAt = time.Now()
	return nil
}

// RemoveSession drops one session by token
func (r *AdminUserRepository) RemoveSession(ctx context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return repositories.ErrNotFound
	}
	kept := a.ActiveSessions[:0]
	for _, s := range a.ActiveSessions {
		if s.Token != token {
			kept = append(kept, s)
		}
	}
	a.ActiveSessions = kept
	return nil
}
