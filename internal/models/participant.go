package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginRecord is one entry in a participant's login history
type LoginRecord struct {
	IP        string    `bson:"ip" json:"ip"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}

// Participant represents a contest participant.
// HasSpun, Prize, GiftLabel and RedeemCode are write-once: they are set
// together in a single atomic update when the spin is allocated and are
// never reset by this service.
type Participant struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	PhoneVerified bool               `bson:"phoneVerified" json:"phoneVerified"`
	HasSpun       bool               `bson:"hasSpun" json:"hasSpun"`
	Prize         string             `bson:"prize,omitempty" json:"prize,omitempty"`
	GiftLabel     string             `bson:"giftLabel,omitempty" json:"giftLabel,omitempty"`
	RedeemCode    string             `bson:"redeemCode,omitempty" json:"redeemCode,omitempty"`
	TermsAgreed   bool               `bson:"termsAgreed" json:"termsAgreed"`
	TermsAgreedAt time.Time          `bson:"termsAgreedAt,omitempty" json:"termsAgreedAt,omitempty"`
	Blocked       bool               `bson:"blocked" json:"blocked"`
	BlockedUntil  time.Time          `bson:"blockedUntil,omitempty" json:"blockedUntil,omitempty"`
	IPAddress     string             `bson:"ipAddress,omitempty" json:"-"`
	LoginHistory  []LoginRecord      `bson:"loginHistory,omitempty" json:"-"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ParticipantListItem is one row of the admin participant listing: the
// participant flattened together with its redemption status (joined via
// aggregation in the repository).
type ParticipantListItem struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Phone         string             `bson:"phone" json:"phone"`
	PhoneVerified bool               `bson:"phoneVerified" json:"phoneVerified"`
	HasSpun       bool               `bson:"hasSpun" json:"hasSpun"`
	GiftLabel     string             `bson:"giftLabel" json:"giftLabel"`
	RedeemCode    string             `bson:"redeemCode" json:"redeemCode"`
	RedeemStatus  string             `bson:"redeemStatus" json:"redeemStatus"`
	Blocked       bool               `bson:"blocked" json:"blocked"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
