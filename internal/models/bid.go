package models

import "time"

// Bid is an offer placed by a user on an item. Bids are never modified.
type Bid struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	TimeStamp time.Time `json:"timestamp" db:"created_at"`
}

// BidView is a bid with its bidder resolved to a public profile.
// swagger:model BidView
type BidView struct {
	ID        string         `json:"id"`
	Amount    float64        `json:"amount"`
	TimeStamp time.Time      `json:"timestamp"`
	User      *BidderProfile `json:"user"` // nil when the bidder no longer exists
}
