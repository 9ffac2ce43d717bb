package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

//go:generate mockgen -source=bids.go -destination=mock_bids.go -package=handlers

// BidPlacer places bids for the token's user.
type BidPlacer interface {
	PlaceBid(ctx context.Context, itemID, token string, amount float64) (models.Bid, error)
}

// BidsRetriever lists the bids of an item.
type BidsRetriever interface {
	RetrieveItemBids(ctx context.Context, itemID, token string) ([]models.BidView, error)
}

// PlaceBidRequest represents the JSON body for a bid
// swagger:model PlaceBidRequest
type PlaceBidRequest struct {
	// Bid amount; has to exceed the start price or the current bid
	// required: true
	// default: 15
	Amount *float64 `json:"amount"`
}

// NewPlaceBidHandler returns an HTTP handler placing a bid on an item.
// @Summary Place bid
// @Description Records a bid for the authenticated user. The amount has to exceed the start price of an item without bids and the newest bid otherwise.
// @Tags bids
// @Accept json
// @Produce json
// @Param id path string true "Item id"
// @Param placeBidRequest body handlers.PlaceBidRequest true "Bid"
// @Success 201 {object} models.Bid "Accepted bid"
// @Failure 400 {object} handlers.ErrorResponse "Missing amount or malformed id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Item or user does not exist"
// @Failure 409 {object} handlers.ErrorResponse "Amount too low"
// @Router /items/{id}/bids [post]
// @Security BearerAuth
func NewPlaceBidHandler(svc BidPlacer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlaceBidRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		if err := validators.Required("amount", req.Amount); err != nil {
			writeError(w, r, err)
			return
		}

		bid, err := svc.PlaceBid(r.Context(), chi.URLParam(r, "id"), bearerToken(r), *req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, bid)
	}
}

// NewRetrieveBidsHandler returns an HTTP handler listing the bids of an item.
// @Summary List bids
// @Description Returns the item's bids newest first; user is null when the bidder was deleted
// @Tags bids
// @Produce json
// @Param id path string true "Item id"
// @Success 200 {array} models.BidView "Bids"
// @Failure 400 {object} handlers.ErrorResponse "Malformed id"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 404 {object} handlers.ErrorResponse "Item does not exist"
// @Router /items/{id}/bids [get]
// @Security BearerAuth
func NewRetrieveBidsHandler(svc BidsRetriever) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bids, err := svc.RetrieveItemBids(r.Context(), chi.URLParam(r, "id"), bearerToken(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, bids)
	}
}
