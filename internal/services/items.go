package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/facades"
	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/repositories"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

// CatalogService manages items, their facets and images.
type CatalogService struct {
	repo   ItemRepository
	cache  FacetCache    // optional
	images ImageStorage  // optional
	tokens TokenVerifier // required for image uploads
}

// CatalogOpt configures optional collaborators of a CatalogService.
type CatalogOpt func(*CatalogService)

// WithFacetCache serves cities and categories from cache.
func WithFacetCache(cache FacetCache) CatalogOpt {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

// WithImageStorage enables image upload and download.
func WithImageStorage(images ImageStorage, tokens TokenVerifier) CatalogOpt {
	return func(s *CatalogService) {
		s.images = images
		s.tokens = tokens
	}
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(repo ItemRepository, opts ...CatalogOpt) *CatalogService {
	s := &CatalogService{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrImagesDisabled is returned by image operations when no storage is configured.
var ErrImagesDisabled = errors.New("image storage is not configured")

// CreateItem validates and stores a new item.
func (svc *CatalogService) CreateItem(ctx context.Context, in models.NewItem) (models.Item, error) {
	if err := validators.First(
		validators.NotBlank("title", in.Title),
		validators.NotBlank("description", in.Description),
		validators.NotNegative("start_price", in.StartPrice),
		validators.NotNegative("reserved_price", in.ReservedPrice),
		validators.NotBefore("finish_date", in.FinishDate, "start_date", in.StartDate),
		validators.NotBlank("category", in.Category),
		validators.NotBlank("city", in.City),
	); err != nil {
		return models.Item{}, err
	}

	images := in.Images
	if images == nil {
		images = models.ImageList{}
	}

	item, err := svc.repo.Create(ctx, models.Item{
		Title:         in.Title,
		Description:   in.Description,
		StartPrice:    in.StartPrice,
		StartDate:     in.StartDate,
		FinishDate:    in.FinishDate,
		ReservedPrice: in.ReservedPrice,
		City:          in.City,
		Category:      in.Category,
		Images:        images,
	})
	if err != nil {
		logger.Log.Errorw("failed to create item", "err", err)
		return models.Item{}, err
	}

	if svc.cache != nil {
		if err := svc.cache.InvalidateFacets(ctx); err != nil {
			logger.Log.Warnw("failed to invalidate catalog facets", "err", err)
		}
	}
	return item, nil
}

// SearchItems lists the items matching every filter of q.
func (svc *CatalogService) SearchItems(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	items, err := svc.repo.Search(ctx, q)
	if err != nil {
		logger.Log.Errorw("failed to search items", "err", err)
		return nil, err
	}
	return items, nil
}

// RetrieveItem returns a single item with its bids.
func (svc *CatalogService) RetrieveItem(ctx context.Context, id string) (models.Item, error) {
	item, err := svc.repo.GetByID(ctx, id)
	if err != nil {
		return models.Item{}, itemError(id, err)
	}
	return item, nil
}

// RetrieveCities returns the distinct cities of all items.
func (svc *CatalogService) RetrieveCities(ctx context.Context) ([]string, error) {
	return svc.facet(ctx, repositories.FacetCities, svc.repo.DistinctCities)
}

// RetrieveCategories returns the distinct categories of all items.
func (svc *CatalogService) RetrieveCategories(ctx context.Context) ([]string, error) {
	return svc.facet(ctx, repositories.FacetCategories, svc.repo.DistinctCategories)
}

func (svc *CatalogService) facet(ctx context.Context, name string, load func(context.Context) ([]string, error)) ([]string, error) {
	if svc.cache != nil {
		values, err := svc.cache.GetFacet(ctx, name)
		if err == nil {
			return values, nil
		}
		if !errors.Is(err, repositories.ErrCacheMiss) {
			logger.Log.Warnw("failed to read catalog facet from cache", "facet", name, "err", err)
		}
	}

	values, err := load(ctx)
	if err != nil {
		logger.Log.Errorw("failed to load catalog facet", "facet", name, "err", err)
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.SetFacet(ctx, name, values); err != nil {
			logger.Log.Warnw("failed to cache catalog facet", "facet", name, "err", err)
		}
	}
	return values, nil
}

// UploadImage stores an image for an authenticated user and returns its key.
func (svc *CatalogService) UploadImage(ctx context.Context, token, filename, contentType string, size int64, r io.Reader) (string, error) {
	if svc.images == nil {
		return "", ErrImagesDisabled
	}

	if _, err := svc.tokens.GetUserID(ctx, token); err != nil {
		return "", auctionerrors.InvalidToken(err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", auctionerrors.NotImage(contentType)
	}

	key := uuid.NewString() + strings.ToLower(path.Ext(filename))
	if err := svc.images.Put(ctx, key, r, size, contentType); err != nil {
		logger.Log.Errorw("failed to store image", "key", key, "err", err)
		return "", err
	}
	return key, nil
}

// DownloadImage opens a stored image. The caller closes the reader.
func (svc *CatalogService) DownloadImage(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if svc.images == nil {
		return nil, "", ErrImagesDisabled
	}

	rc, contentType, err := svc.images.Get(ctx, key)
	if errors.Is(err, facades.ErrImageNotFound) {
		return nil, "", auctionerrors.ImageNotFound(key)
	}
	if err != nil {
		logger.Log.Errorw("failed to read image", "key", key, "err", err)
		return nil, "", err
	}
	return rc, contentType, nil
}

// itemError translates storage errors on item lookups.
func itemError(id string, err error) error {
	switch {
	case errors.Is(err, repositories.ErrInvalidID):
		return auctionerrors.InvalidID(id)
	case errors.Is(err, repositories.ErrNotFound):
		return auctionerrors.ItemNotFound(id)
	default:
		logger.Log.Errorw("failed to get item", "id", id, "err", err)
		return err
	}
}
