package mongodb

import (
	"context"
	"time"

	"github.com/yesbharath/spinwheel-backend/internal/models"
	"github.com/yesbharath/spinwheel-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure WinnerStoryRepository implements the interface
var _ repositories.WinnerStoryRepository = (*WinnerStoryRepository)(nil)

// WinnerStoryRepository handles MongoDB operations for WinnerStory
type WinnerStoryRepository struct {
	collection *mongo.Collection
}

// NewWinnerStoryRepository creates a new WinnerStoryRepository
func NewWinnerStoryRepository(db *mongo.Database) *WinnerStoryRepository {
	return &WinnerStoryRepository{
		collection: db.Collection("winnerstories"),
	}
}

// Create inserts a new winner story
func (r *WinnerStoryRepository) Create(ctx context.Context, story *models.WinnerStory) error {
	story.ID = primitive.NewObjectID()
	if story.UploadedAt.IsZero() {
		story.UploadedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

// FindAll returns every winner story ordered by priority
func (r *WinnerStoryRepository) FindAll(ctx context.Context) ([]*models.WinnerStory, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "priority", Value: 1},
		{Key: "uploadedAt", Value: -1},
	})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stories []*models.WinnerStory
	if err := cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// Delete deletes a winner story by ID
func (r *WinnerStoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
