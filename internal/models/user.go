package models

import "time"

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "user"

// User represents a registered bidder.
type User struct {
	ID        string    `json:"id" db:"id"`                 // Opaque identifier assigned by the store
	Name      string    `json:"name" db:"name"`             // First name
	Surname   string    `json:"surname" db:"surname"`       // Last name
	Email     string    `json:"email" db:"email"`           // Unique e-mail
	Password  string    `json:"-" db:"password"`            // Bcrypt hash, never serialised
	Role      string    `json:"role" db:"role"`             // Authorization role
	Items     []string  `json:"items" db:"-"`               // Items the user has bid on, in first-bid order
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Last update timestamp
}

// Profile returns the public projection of the user.
func (u User) Profile() UserProfile {
	items := u.Items
	if items == nil {
		items = []string{}
	}
	return UserProfile{
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
		Items:   items,
	}
}

// HasItem reports whether the user already bid on the item.
func (u User) HasItem(itemID string) bool {
	for _, id := range u.Items {
		if id == itemID {
			return true
		}
	}
	return false
}

// UserProfile is a user without identifier and password.
// swagger:model UserProfile
type UserProfile struct {
	Name    string   `json:"name"`
	Surname string   `json:"surname"`
	Email   string   `json:"email"`
	Role    string   `json:"role"`
	Items   []string `json:"items"`
}

// UserUpdate carries the subset of fields to change; nil fields are left untouched.
type UserUpdate struct {
	Name     *string
	Surname  *string
	Email    *string
	Password *string
}

// IsEmpty reports whether no field was provided.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Surname == nil && u.Email == nil && u.Password == nil
}

// BidderProfile is the part of a user shown next to a bid.
// swagger:model BidderProfile
type BidderProfile struct {
	Name string `json:"name"`
}
