package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure RateLimitRepository implements the interface
var _ repositories.RateLimitRepository = (*RateLimitRepository)(nil)

// RateLimitRepository handles MongoDB operations for rate limit counters
type RateLimitRepository struct {
	collection *mongo.Collection
}

// NewRateLimitRepository creates a new RateLimitRepository
func NewRateLimitRepository(db *mongo.Database) *RateLimitRepository {
	return &RateLimitRepository{
		collection: db.Collection("ratelimits"),
	}
}

// FindByKey finds a rate limit entry by key
func (r *RateLimitRepository) FindByKey(ctx context.Context, key string) (*models.RateLimitEntry, error) {
	var entry models.RateLimitEntry
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// IncrementOrInsert atomically bumps the counter for key, creating the
// window document if absent. Parallel requests all land on the same
// document, so the count is accurate even under concurrency.
func (r *RateLimitRepository) IncrementOrInsert(ctx context.Context, key string, expiresAt time.Time) (*models.RateLimitEntry, error) {
	filter := bson.M{"key": key}
	update := bson.M{
		"$inc": bson.M{"count": 1},
		"$set": bson.M{"updatedAt": time.Now()},
		"$setOnInsert": bson.M{
			"expiresAt": expiresAt,
			"createdAt": time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var entry models.RateLimitEntry
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// SetBlock applies a block window to a key
func (r *RateLimitRepository) SetBlock(ctx context.Context, key string, blockedUntil, expiresAt time.Time) error {
	filter := bson.M{"key": key}
	update := bson.M{
		"$set": bson.M{
			"blockedUntil": blockedUntil,
			"expiresAt":    expiresAt,
			"updatedAt":    time.Now(),
		},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// DeleteByKey removes a rate limit entry
func (r *RateLimitRepository) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"key": key})
	return err
}

// EnsureIndexes creates the unique key index and the TTL index on expiresAt
func (r *RateLimitRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
