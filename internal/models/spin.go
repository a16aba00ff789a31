package models

// SpinResult is the outcome of a completed spin allocation, returned to the
// UI so it can animate the wheel to the winning segment.
type SpinResult struct {
	TierID          string  `json:"id"`
	Label           string  `json:"label"`
	RedeemCode      string  `json:"redeemCode"`
	RedeemCondition string  `json:"redeemCondition,omitempty"`
	Angle           float64 `json:"angle"`
	SpinNumber      int64   `json:"-"` // ordinal N, kept out of the public payload
}
