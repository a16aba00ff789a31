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

// Compile-time check to ensure OtpRepository implements the interface
var _ repositories.OtpRepository = (*OtpRepository)(nil)

// OtpRepository handles MongoDB operations for pending OTPs
type OtpRepository struct {
	collection *mongo.Collection
}

// NewOtpRepository creates a new OtpRepository
func NewOtpRepository(db *mongo.Database) *OtpRepository {
	return &OtpRepository{
		collection: db.Collection("otps"),
	}
}

// Upsert stores or replaces the pending OTP for a phone number
func (r *OtpRepository) Upsert(ctx context.Context, phone, code, tempName string, expiresAt time.Time) error {
	filter := bson.M{"phone": phone}
	update := bson.M{
		"$set": bson.M{
			"otpCode":   code,
			"tempName":  tempName,
			"expiresAt": expiresAt,
			"updatedAt": time.Now(),
		},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindByPhone finds the pending OTP for a phone number
func (r *OtpRepository) FindByPhone(ctx context.Context, phone string) (*models.OtpEntry, error) {
	var entry models.OtpEntry
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// DeleteByPhone removes the pending OTP for a phone number
func (r *OtpRepository) DeleteByPhone(ctx context.Context, phone string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"phone": phone})
	return err
}

// EnsureIndexes creates the unique phone index and the TTL index that
// removes expired OTPs automatically.
func (r *OtpRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
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
