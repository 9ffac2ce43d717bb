package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Item represents an auctioned lot.
type Item struct {
	ID            string    `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Description   string    `json:"description" db:"description"`
	StartPrice    float64   `json:"start_price" db:"start_price"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	FinishDate    time.Time `json:"finish_date" db:"finish_date"`
	ReservedPrice float64   `json:"reserved_price" db:"reserved_price"`
	City          string    `json:"city" db:"city"`
	Category      string    `json:"category" db:"category"`
	Images        ImageList `json:"images" db:"images"`
	Bids          []Bid     `json:"bids" db:"-"` // Newest first
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CurrentBid returns the newest bid, if any.
func (i Item) CurrentBid() (Bid, bool) {
	if len(i.Bids) == 0 {
		return Bid{}, false
	}
	return i.Bids[0], true
}

// Floor returns the amount a new bid has to exceed.
func (i Item) Floor() float64 {
	if bid, ok := i.CurrentBid(); ok {
		return bid.Amount
	}
	return i.StartPrice
}

// NewItem holds the attributes of an item to be created.
type NewItem struct {
	Title         string
	Description   string
	StartPrice    float64
	StartDate     time.Time
	FinishDate    time.Time
	ReservedPrice float64
	Images        ImageList
	Category      string
	City          string
}

// ImageList is a list of image references that also accepts a single JSON string.
type ImageList []string

// UnmarshalJSON decodes either a string or an array of strings.
func (l *ImageList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = ImageList{}
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = ImageList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("images must be a string or an array of strings")
	}
	if many == nil {
		many = []string{}
	}
	*l = many
	return nil
}

// Value stores the list as a JSON array.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads a JSON array column.
func (l *ImageList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported images column type %T", src)
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

// ItemQuery filters items. Zero values and nil bounds impose no constraint.
type ItemQuery struct {
	City       string
	Category   string
	StartDate  *time.Time // Lower bound for FinishDate, inclusive
	EndDate    *time.Time // Upper bound for FinishDate, inclusive
	StartPrice *float64   // Lower bound for StartPrice, inclusive
	EndPrice   *float64   // Upper bound for StartPrice, inclusive
}

// Matches reports whether the item satisfies every filter of the query.
func (q ItemQuery) Matches(item Item) bool {
	if q.City != "" && item.City != q.City {
		return false
	}
	if q.Category != "" && item.Category != q.Category {
		return false
	}
	if q.StartDate != nil && item.FinishDate.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && item.FinishDate.After(*q.EndDate) {
		return false
	}
	if q.StartPrice != nil && item.StartPrice < *q.StartPrice {
		return false
	}
	if q.EndPrice != nil && item.StartPrice > *q.EndPrice {
		return false
	}
	return true
}
