package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Compile-time check to ensure AdminUserRepository implements the interface
var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

// AdminUserRepository handles MongoDB operations for AdminUser
type AdminUserRepository struct {
	collection *mongo.Collection
}

// NewAdminUserRepository creates a new AdminUserRepository
func NewAdminUserRepository(db *mongo.Database) *AdminUserRepository {
	return &AdminUserRepository{
		collection: db.Collection("admins"),
	}
}

// Create inserts a new admin user
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	admin.ID = primitive.NewObjectID()
	admin.CreatedAt = time.Now()
	admin.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, admin)
	return err
}

// FindByUsername finds an admin user by username
func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// FindBySessionToken finds the admin user holding an active session token
func (r *AdminUserRepository) FindBySessionToken(ctx context.Context, token string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.collection.FindOne(ctx, bson.M{"activeSessions.token": token}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// ReplaceSessions replaces the admin's active session list
func (r *AdminUserRepository) ReplaceSessions(ctx context.Context, id primitive.ObjectID, sessions []models.AdminSession) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"activeSessions": sessions,
			"updatedAt":      time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// RemoveSession removes one session token from the admin's active sessions
func (r *AdminUserRepository) RemoveSession(ctx context.Context, id primitive.ObjectID, token string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$pull": bson.M{"activeSessions": bson.M{"token": token}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
