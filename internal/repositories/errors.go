package repositories

import "errors"

// Storage errors shared by every backend.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrDuplicate      = errors.New("duplicate key")
	ErrBidRejected    = errors.New("bid does not exceed the current amount")
	ErrBidderNotFound = errors.New("bidder not found")
	ErrCacheMiss      = errors.New("cache miss")
)
