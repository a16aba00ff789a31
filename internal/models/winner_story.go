package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WinnerStory is one entry in the winner photo gallery
type WinnerStory struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ImageURL   string             `bson:"imageUrl" json:"imageUrl"`
	PrizeLabel string             `bson:"prizeLabel" json:"prizeLabel"`
	Priority   int                `bson:"priority" json:"priority"` // 1 is highest
	UploadedAt time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
