package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeTier represents one wheel segment and its stock counters.
// Quantity and Count are mutated only through atomic updates: for any tier,
// quantity + count stays equal to the initially provisioned stock.
type PrizeTier struct {
	TierID          string  `bson:"id" json:"id"`
	Label           string  `bson:"label" json:"label"`
	Quantity        int64   `bson:"quantity" json:"quantity"`
	Count           int64   `bson:"count" json:"count"`
	Weight          float64 `bson:"weight" json:"weight"` // display/legacy only, selection is positional
	Angle           float64 `bson:"angle" json:"angle"`   // wheel segment angle for the UI
	Type            string  `bson:"type,omitempty" json:"type,omitempty"`
	RedeemCondition string  `bson:"redeemCondition,omitempty" json:"redeemCondition,omitempty"`
}

// Contest represents a contest run. TotalSpins is the global spin ledger:
// a monotonically increasing counter mutated only by atomic increment.
type Contest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`
	Active     bool               `bson:"active" json:"active"`
	TotalSpins int64              `bson:"totalSpins" json:"totalSpins"`
	Prizes     []PrizeTier        `bson:"prizes" json:"prizes"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FindPrize returns the prize tier with the given id, or nil if absent
func (c *Contest) FindPrize(tierID string) *PrizeTier {
	for i := range c.Prizes {
		if c.Prizes[i].TierID == tierID {
			return &c.Prizes[i]
		}
	}
	return nil
}
