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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure RedeemRepository implements the interface
var _ repositories.RedeemRepository = (*RedeemRepository)(nil)

// RedeemRepository handles MongoDB operations for Redeem
type RedeemRepository struct {
	collection *mongo.Collection
}

// NewRedeemRepository creates a new RedeemRepository
func NewRedeemRepository(db *mongo.Database) *RedeemRepository {
	return &RedeemRepository{
		collection: db.Collection("redeems"),
	}
}

// Create inserts a new redemption record
func (r *RedeemRepository) Create(ctx context.Context, redeem *models.Redeem) error {
	redeem.ID = primitive.NewObjectID()
	redeem.CreatedAt = time.Now()
	redeem.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, redeem)
	return err
}

// FindByParticipantID finds a redemption record by participant ID
func (r *RedeemRepository) FindByParticipantID(ctx context.Context, participantID primitive.ObjectID) (*models.Redeem, error) {
	var redeem models.Redeem
	err := r.collection.FindOne(ctx, bson.M{"participantId": participantID}).Decode(&redeem)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &redeem, nil
}

// UpdateStatus updates the claim status of a participant's redemption record
func (r *RedeemRepository) UpdateStatus(ctx context.Context, participantID primitive.ObjectID, status models.RedeemStatus, rejectionReason string) (*models.Redeem, error) {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	update := bson.M{"$set": set}
	if status == models.RedeemStatusRejected {
		set["rejectionReason"] = rejectionReason
	} else {
		// Leaving a stale reason on a non-rejected record confuses the
		// admin panel.
		update["$unset"] = bson.M{"rejectionReason": ""}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Redeem
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"participantId": participantID}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// FindByStatus returns redemption records with the given status, paginated
func (r *RedeemRepository) FindByStatus(ctx context.Context, status models.RedeemStatus, page, limit int) ([]*models.Redeem, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"status": status}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var redeems []*models.Redeem
	if err := cursor.All(ctx, &redeems); err != nil {
		return nil, err
	}
	return redeems, nil
}

// DeleteAll removes every redemption record (admin reset)
func (r *RedeemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
