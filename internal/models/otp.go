package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OtpEntry is a pending one-time password for a phone number. The backing
// collection carries a TTL index on expiresAt so stale entries disappear
// on their own.
type OtpEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Phone     string             `bson:"phone" json:"phone"`
	Code      string             `bson:"otpCode" json:"-"`
	TempName  string             `bson:"tempName" json:"tempName"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
