package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ContestRepository implements the interface
var _ repositories.ContestRepository = (*ContestRepository)(nil)

// ContestRepository handles MongoDB operations for Contest
type ContestRepository struct {
	collection *mongo.Collection
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(db *mongo.Database) *ContestRepository {
	return &ContestRepository{
		collection: db.Collection("contests"),
	}
}

// Create inserts a new contest
func (r *ContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	contest.ID = primitive.NewObjectID()
	contest.CreatedAt = time.Now()
	contest.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, contest)
	return err
}

// FindActive finds the active contest
func (r *ContestRepository) FindActive(ctx context.Context) (*models.Contest, error) {
	var contest models.Contest
	err := r.collection.FindOne(ctx, bson.M{"active": true}).Decode(&contest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNoActiveContest
		}
		return nil, err
	}
	return &contest, nil
}

// IncrementTotalSpins atomically increments totalSpins on the active contest
// and returns the new value. This is the spin ledger: every call hands out a
// distinct ordinal, with no gaps and no repeats, because the increment is a
// single findAndModify on the server.
func (r *ContestRepository) IncrementTotalSpins(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	filter := bson.M{"_id": contestID, "active": true}
	update := bson.M{
		"$inc": bson.M{"totalSpins": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Contest
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repositories.ErrNoActiveContest
		}
		return 0, fmt.Errorf("spin ledger increment failed: %w", err)
	}
	return updated.TotalSpins, nil
}

// DecrementPrizeStock conditionally decrements a tier's quantity and bumps
// its count in the same atomic update. The $elemMatch guard on quantity > 0
// means the update matches nothing once the tier is exhausted, so quantity
// can never go negative.
func (r *ContestRepository) DecrementPrizeStock(ctx context.Context, contestID primitive.ObjectID, tierID string) (bool, error) {
	filter := bson.M{
		"_id": contestID,
		"prizes": bson.M{
			"$elemMatch": bson.M{
				"id":       tierID,
				"quantity": bson.M{"$gt": 0},
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{
			"prizes.$.quantity": -1,
			"prizes.$.count":    1,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("prize stock decrement failed: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// SetPrizeQuantity sets a tier's remaining stock (admin override)
func (r *ContestRepository) SetPrizeQuantity(ctx context.Context, contestID primitive.ObjectID, tierID string, quantity int64) error {
	filter := bson.M{"_id": contestID, "prizes.id": tierID}
	update := bson.M{
		"$set": bson.M{
			"prizes.$.quantity": quantity,
			"updatedAt":         time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// DeleteAll removes every contest document (admin reset)
func (r *ContestRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureIndexes creates the partial unique index that enforces at most one
// active contest at a time.
func (r *ContestRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "active", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"active": true}),
	}
	_, err := r.collection.Indexes().CreateOne(ctx, model)
	return err
}
