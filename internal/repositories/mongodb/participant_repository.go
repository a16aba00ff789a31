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

// Compile-time check to ensure ParticipantRepository implements the interface
var _ repositories.ParticipantRepository = (*ParticipantRepository)(nil)

// ParticipantRepository handles MongoDB operations for Participant
type ParticipantRepository struct {
	collection *mongo.Collection
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *mongo.Database) *ParticipantRepository {
	return &ParticipantRepository{
		collection: db.Collection("participants"),
	}
}

// Create inserts a new participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	participant.ID = primitive.NewObjectID()
	participant.CreatedAt = time.Now()
	participant.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, participant)
	return err
}

// FindByID finds a participant by ID
func (r *ParticipantRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Participant, error) {
	var participant models.Participant
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// FindByPhone finds a participant by phone number
func (r *ParticipantRepository) FindByPhone(ctx context.Context, phone string) (*models.Participant, error) {
	var participant models.Participant
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&participant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// Update updates an existing participant
func (r *ParticipantRepository) Update(ctx context.Context, participant *models.Participant) error {
	participant.UpdatedAt = time.Now()
	filter := bson.M{"_id": participant.ID}
	update := bson.M{"$set": participant}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// SetAllocation writes the spin outcome onto the participant as one atomic
// update. hasSpun, prize, giftLabel and redeemCode always change together.
func (r *ParticipantRepository) SetAllocation(ctx context.Context, id primitive.ObjectID, tierID, giftLabel, redeemCode string) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"hasSpun":    true,
			"prize":      tierID,
			"giftLabel":  giftLabel,
			"redeemCode": redeemCode,
			"updatedAt":  time.Now(),
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

// SetTermsAgreed marks the participant as having agreed to the contest terms
func (r *ParticipantRepository) SetTermsAgreed(ctx context.Context, id primitive.ObjectID, agreedAt time.Time) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"termsAgreed":   true,
			"termsAgreedAt": agreedAt,
			"updatedAt":     time.Now(),
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

// SetBlocked updates a participant's blocked flag
func (r *ParticipantRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool, until time.Time) error {
	filter := bson.M{"_id": id}
	set := bson.M{"blocked": blocked, "updatedAt": time.Now()}
	if !until.IsZero() {
		set["blockedUntil"] = until
	}
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete deletes a participant by ID
func (r *ParticipantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindPage returns one page of the admin participant listing, joined with
// each participant's redemption status via $lookup.
func (r *ParticipantRepository) FindPage(ctx context.Context, q repositories.ParticipantQuery) ([]*models.ParticipantListItem, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	sortField := q.SortField
	if sortField == "" {
		sortField = "createdAt"
	}
	sortOrder := -1
	if q.SortAsc {
		sortOrder = 1
	}

	match := bson.M{}
	if q.Search != "" {
		match["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": q.Search, "$options": "i"}},
			bson.M{"redeemCode": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	total, err := r.collection.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "redeems",
			"localField":   "_id",
			"foreignField": "participantId",
			"as":           "redeemInfo",
		}}},
		// Take the first redeem record only so multiple records never
		// multiply rows.
		bson.D{{Key: "$addFields", Value: bson.M{
			"redeemInfo": bson.M{"$arrayElemAt": bson.A{"$redeemInfo", 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":           1,
			"name":          1,
			"phone":         1,
			"phoneVerified": 1,
			"hasSpun":       1,
			"blocked":       1,
			"createdAt":     1,
			"giftLabel":     bson.M{"$ifNull": bson.A{"$giftLabel", ""}},
			"redeemCode":    bson.M{"$ifNull": bson.A{"$redeemCode", ""}},
			"redeemStatus":  bson.M{"$ifNull": bson.A{"$redeemInfo.status", ""}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: sortField, Value: sortOrder}}}},
		bson.D{{Key: "$skip", Value: int64((q.Page - 1) * q.Limit)}},
		bson.D{{Key: "$limit", Value: int64(q.Limit)}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var items []*models.ParticipantListItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Count returns the total number of participants
func (r *ParticipantRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// CountVerified returns the number of phone-verified participants
func (r *ParticipantRepository) CountVerified(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"phoneVerified": true})
}

// DeleteAll removes every participant document (admin reset)
func (r *ParticipantRepository) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}

// EnsureIndexes creates the unique phone and redeem code indexes
func (r *ParticipantRepository) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "redeemCode", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}
