package handlers

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

//go:generate mockgen -source=items.go -destination=mock_items.go -package=handlers

// ItemCreator stores new items.
type ItemCreator interface {
	CreateItem(ctx context.Context, in models.NewItem) (models.Item, error)
}

// ItemSearcher lists items matching a query.
type ItemSearcher interface {
	SearchItems(ctx context.Context, q models.ItemQuery) ([]models.Item, error)
}

// ItemRetriever returns a single item.
type ItemRetriever interface {
	RetrieveItem(ctx context.Context, id string) (models.Item, error)
}

// CitiesRetriever returns the distinct item cities.
type CitiesRetriever interface {
	RetrieveCities(ctx context.Context) ([]string, error)
}

// CategoriesRetriever returns the distinct item categories.
type CategoriesRetriever interface {
	RetrieveCategories(ctx context.Context) ([]string, error)
}

// CreateItemRequest represents the JSON body for item creation
// swagger:model CreateItemRequest
type CreateItemRequest struct {
	// required: true
	// default: Web shooters
	Title *string `json:"title"`

	// required: true
	// default: Slightly used
	Description *string `json:"description"`

	// required: true
	// default: 10
	StartPrice *float64 `json:"start_price"`

	// RFC 3339 date
	// required: true
	StartDate *time.Time `json:"start_date"`

	// RFC 3339 date
	// required: true
	FinishDate *time.Time `json:"finish_date"`

	// required: true
	// default: 20
	ReservedPrice *float64 `json:"reserved_price"`

	// A single image reference or a list of them
	Images models.ImageList `json:"images" swaggertype:"array,string"`

	// required: true
	// default: gadgets
	Category *string `json:"category"`

	// required: true
	// default: New York
	City *string `json:"city"`
}

// NewCreateItemHandler returns an HTTP handler creating an item.
// @Summary Create item
// @Description Adds an item to the catalog
// @Tags items
// @Accept json
// @Produce json
// @Param createItemRequest body handlers.CreateItemRequest true "Item"
// @Success 201 {object} models.Item "Created item"
// @Failure 400 {object} handlers.ErrorResponse "Missing, empty or malformed field"
// @Router /items [post]
func NewCreateItemHandler(svc ItemCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateItemRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := validators.First(
			validators.Required("title", req.Title),
			validators.Required("description", req.Description),
			validators.Required("start_price", req.StartPrice),
			validators.Required("start_date", req.StartDate),
			validators.Required("finish_date", req.FinishDate),
			validators.Required("reserved_price", req.ReservedPrice),
			validators.Required("category", req.Category),
			validators.Required("city", req.City),
		); err != nil {
			writeError(w, r, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), models.NewItem{
			Title:         *req.Title,
			Description:   *req.Description,
			StartPrice:    *req.StartPrice,
			StartDate:     *req.StartDate,
			FinishDate:    *req.FinishDate,
			ReservedPrice: *req.ReservedPrice,
			Images:        req.Images,
			Category:      *req.Category,
			City:          *req.City,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

// NewSearchItemsHandler returns an HTTP handler searching the catalog.
// @Summary Search items
// @Description Lists items matching every supplied filter; no filter lists everything
// @Tags items
// @Produce json
// @Param city query string false "Exact city"
// @Param category query string false "Exact category"
// @Param startDate query string false "Earliest finish date (RFC 3339 or YYYY-MM-DD)"
// @Param endDate query string false "Latest finish date (RFC 3339 or YYYY-MM-DD)"
// @Param startPrice query number false "Lowest start price"
// @Param endPrice query number false "Highest start price"
// @Success 200 {array} models.Item "Matching items"
// @Failure 400 {object} handlers.ErrorResponse "Malformed filter"
// @Router /items [get]
func NewSearchItemsHandler(svc ItemSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseItemQuery(r.URL.Query())
		if err != nil {
			writeError(w, r, err)
			return
		}

		items, err := svc.SearchItems(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// NewRetrieveItemHandler returns an HTTP handler returning one item.
// @Summary Get item
// @Description Returns the item with its bids, newest first
// @Tags items
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {object} models.Item "Item"
// @Failure 400 {object} handlers.ErrorResponse "Malformed id"
// @Failure 404 {object} handlers.ErrorResponse "Item does not exist"
// @Router /items/{id} [get]
func NewRetrieveItemHandler(svc ItemRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := svc.RetrieveItem(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

// NewRetrieveCitiesHandler returns an HTTP handler listing item cities.
// @Summary List cities
// @Tags items
// @Produce json
// @Success 200 {array} string "Distinct cities, sorted"
// @Router /items/cities [get]
func NewRetrieveCitiesHandler(svc CitiesRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cities, err := svc.RetrieveCities(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, cities)
	}
}

// NewRetrieveCategoriesHandler returns an HTTP handler listing item categories.
// @Summary List categories
// @Tags items
// @Produce json
// @Success 200 {array} string "Distinct categories, sorted"
// @Router /items/categories [get]
func NewRetrieveCategoriesHandler(svc CategoriesRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.RetrieveCategories(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, categories)
	}
}

var queryDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseItemQuery(values url.Values) (models.ItemQuery, error) {
	q := models.ItemQuery{
		City:     values.Get("city"),
		Category: values.Get("category"),
	}

	var err error
	if q.StartDate, err = queryDate(values, "startDate"); err != nil {
		return models.ItemQuery{}, err
	}
	if q.EndDate, err = queryDate(values, "endDate"); err != nil {
		return models.ItemQuery{}, err
	}
	if q.StartPrice, err = queryPrice(values, "startPrice"); err != nil {
		return models.ItemQuery{}, err
	}
	if q.EndPrice, err = queryPrice(values, "endPrice"); err != nil {
		return models.ItemQuery{}, err
	}
	return q, nil
}

func queryDate(values url.Values, key string) (*time.Time, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	for _, layout := range queryDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, auctionerrors.Invalid(key, v)
}

func queryPrice(values url.Values, key string) (*float64, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, auctionerrors.Invalid(key, v)
	}
	return &f, nil
}
