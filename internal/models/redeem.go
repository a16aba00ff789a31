package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RedeemStatus represents the in-store claim status of an allocated prize
type RedeemStatus string

const (
	RedeemStatusPending  RedeemStatus = "pending"
	RedeemStatusClaimed  RedeemStatus = "claimed"
	RedeemStatusRejected RedeemStatus = "rejected"
)

// RedeemContact is the contact snapshot stored with a redemption record
type RedeemContact struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
}

// Redeem tracks the real-world claim of an allocated prize. One record is
// created per successful spin allocation; status transitions are driven by
// the admin panel only.
type Redeem struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ParticipantID   primitive.ObjectID `bson:"participantId" json:"participantId"`
	PrizeID         string             `bson:"prizeId" json:"prizeId"`
	PrizeLabel      string             `bson:"prizeLabel" json:"prizeLabel"`
	Status          RedeemStatus       `bson:"status" json:"status"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	Contact         RedeemContact      `bson:"contact" json:"contact"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
