package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RateLimitEntry is a fixed-window request counter for one key
// (e.g. "spin:<phone>"). Count is mutated only by atomic upsert-increment.
// The collection carries a TTL index on expiresAt.
type RateLimitEntry struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key          string             `bson:"key" json:"key"`
	Count        int64              `bson:"count" json:"count"`
	BlockedUntil time.Time          `bson:"blockedUntil,omitempty" json:"blockedUntil,omitempty"`
	ExpiresAt    time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
