package services

import (
	"context"
	"io"

	"github.com/sbilibin2017/auction-live/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=services

// UserRepository defines storage operations for users.
type UserRepository interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// TokenManager issues and verifies signed tokens carrying a user id.
type TokenManager interface {
	Generate(ctx context.Context, userID string) (string, error)
	GetUserID(ctx context.Context, token string) (string, error)
}

// TokenVerifier resolves the user id of a signed token.
type TokenVerifier interface {
	GetUserID(ctx context.Context, token string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// ItemRepository defines storage operations for the catalog.
type ItemRepository interface {
	Create(ctx context.Context, item models.Item) (models.Item, error)
	GetByID(ctx context.Context, id string) (models.Item, error)
	Search(ctx context.Context, q models.ItemQuery) ([]models.Item, error)
	DistinctCities(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

// FacetCache caches distinct catalog values.
type FacetCache interface {
	GetFacet(ctx context.Context, facet string) ([]string, error)
	SetFacet(ctx context.Context, facet string, values []string) error
	InvalidateFacets(ctx context.Context) error
}

// ImageStorage stores item images by key.
type ImageStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// BidRepository reads items and atomically records bids on them.
type BidRepository interface {
	GetByID(ctx context.Context, id string) (models.Item, error)
	PlaceBid(ctx context.Context, itemID string, bid models.Bid) (models.Bid, error)
}

// BidderReader resolves bidders.
type BidderReader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}

// BidPublisher publishes accepted bids.
type BidPublisher interface {
	PublishBidPlaced(ctx context.Context, event models.BidEvent) error
}
