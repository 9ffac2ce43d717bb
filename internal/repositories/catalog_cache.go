package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sbilibin2017/auction-live/internal/logger"
)

// Catalog facets cached in Redis.
const (
	FacetCities     = "cities"
	FacetCategories = "categories"
)

// CatalogCacheRepository caches catalog facets (distinct cities and categories) in Redis.
type CatalogCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached facets
}

// NewCatalogCacheRepository creates a new repository instance with optional TTL
func NewCatalogCacheRepository(client *redis.Client, expiration time.Duration) *CatalogCacheRepository {
	return &CatalogCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func facetKey(facet string) string {
	return fmt.Sprintf("catalog:facet:%s", facet)
}

// GetFacet returns the cached values of a facet, or ErrCacheMiss.
func (r *CatalogCacheRepository) GetFacet(ctx context.Context, facet string) ([]string, error) {
	key := facetKey(facet)

	val, err := r.client.Get(ctx, key).Result()
	logger.Log.Infow(
		"cache get",
		"key", key,
		"result", val,
		"error", err,
	)
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("facet %s: %w", facet, ErrCacheMiss)
	}
	if err != nil {
		return nil, err
	}

	var values []string
	if err := json.Unmarshal([]byte(val), &values); err != nil {
		return nil, err
	}
	return values, nil
}

// SetFacet caches the values of a facet with expiration.
func (r *CatalogCacheRepository) SetFacet(ctx context.Context, facet string, values []string) error {
	key := facetKey(facet)

	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()
	logger.Log.Infow(
		"cache set",
		"key", key,
		"values", values,
		"error", err,
	)
	return err
}

// InvalidateFacets drops every cached facet.
func (r *CatalogCacheRepository) InvalidateFacets(ctx context.Context) error {
	keys := []string{facetKey(FacetCities), facetKey(FacetCategories)}

	n, err := r.client.Del(ctx, keys...).Result()
	logger.Log.Infow(
		"cache invalidate",
		"keys", keys,
		"result", n,
		"error", err,
	)
	return err
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
