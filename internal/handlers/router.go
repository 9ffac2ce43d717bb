package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/middlewares"
)

// UserAPI is the account surface served under /users and /auth.
type UserAPI interface {
	Registerer
	Authenticator
	ProfileRetriever
	ProfileUpdater
	AccountDeleter
}

// CatalogAPI is the catalog surface served under /items and /images.
type CatalogAPI interface {
	ItemCreator
	ItemSearcher
	ItemRetriever
	CitiesRetriever
	CategoriesRetriever
	ImageUploader
	ImageDownloader
}

// BiddingAPI is the bidding surface served under /items/{id}/bids.
type BiddingAPI interface {
	BidPlacer
	BidsRetriever
}

// HealthResponse represents the liveness probe response
// swagger:model HealthResponse
type HealthResponse struct {
	// default: ok
	Status string `json:"status"`
}

// NewHealthHandler returns the liveness probe handler.
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} handlers.HealthResponse
// @Router /healthz [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// NewRouter wires every route. Routes marked with @Security BearerAuth sit
// behind the auth middleware.
func NewRouter(users UserAPI, catalog CatalogAPI, bidding BiddingAPI, tokener middlewares.Tokener, swaggerURL string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMiddleware := middlewares.AuthMiddleware(tokener)

	r.Get("/healthz", NewHealthHandler())

	// Public routes
	r.Post("/users", NewRegisterHandler(users))
	r.Post("/auth", NewAuthHandler(users))
	r.Post("/items", NewCreateItemHandler(catalog))
	r.Get("/items", NewSearchItemsHandler(catalog))
	r.Get("/items/cities", NewRetrieveCitiesHandler(catalog))
	r.Get("/items/categories", NewRetrieveCategoriesHandler(catalog))
	r.Get("/items/{id}", NewRetrieveItemHandler(catalog))
	r.Get("/images/{key}", NewDownloadImageHandler(catalog))

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/users", NewRetrieveUserHandler(users))
		r.Patch("/users", NewUpdateUserHandler(users))
		r.Delete("/users", NewDeleteUserHandler(users))
		r.Post("/items/{id}/bids", NewPlaceBidHandler(bidding))
		r.Get("/items/{id}/bids", NewRetrieveBidsHandler(bidding))
		r.Post("/images", NewUploadImageHandler(catalog))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(swaggerURL)))

	return r
}
