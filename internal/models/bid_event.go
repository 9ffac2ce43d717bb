package models

// BidEvent is published after a bid was accepted.
type BidEvent struct {
	EventID        string  `json:"event_id"`        // Unique event identifier
	ItemID         string  `json:"item_id"`         // Item the bid was placed on
	BidID          string  `json:"bid_id"`          // Accepted bid
	UserID         string  `json:"user_id"`         // Bidder
	Amount         float64 `json:"amount"`          // Accepted amount
	PreviousAmount float64 `json:"previous_amount"` // Floor the bid had to exceed
	Timestamp      int64   `json:"timestamp"`       // Unix seconds when the bid was stored
}
