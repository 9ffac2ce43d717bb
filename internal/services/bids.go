package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/logger"
	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/repositories"
	"github.com/sbilibin2017/auction-live/internal/validators"
)

// BiddingService places bids and lists them.
type BiddingService struct {
	items     BidRepository
	users     BidderReader
	tokens    TokenVerifier
	publisher BidPublisher // optional
}

// NewBiddingService creates a new BiddingService. publisher may be nil.
func NewBiddingService(items BidRepository, users BidderReader, tokens TokenVerifier, publisher BidPublisher) *BiddingService {
	return &BiddingService{
		items:     items,
		users:     users,
		tokens:    tokens,
		publisher: publisher,
	}
}

// PlaceBid records a bid of amount on the item for the token's user.
// The amount has to exceed the start price of an item without bids and
// the newest bid otherwise.
func (svc *BiddingService) PlaceBid(ctx context.Context, itemID, token string, amount float64) (models.Bid, error) {
	userID, err := svc.tokens.GetUserID(ctx, token)
	if err != nil {
		return models.Bid{}, auctionerrors.InvalidToken(err)
	}

	item, err := svc.items.GetByID(ctx, itemID)
	if err != nil {
		return models.Bid{}, itemError(itemID, err)
	}

	if err := checkBid(item, amount); err != nil {
		return models.Bid{}, err
	}

	if _, err := svc.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrInvalidID) {
			return models.Bid{}, auctionerrors.UserIDNotFound(userID)
		}
		logger.Log.Errorw("failed to get bidder", "user_id", userID, "err", err)
		return models.Bid{}, err
	}

	bid, err := svc.items.PlaceBid(ctx, itemID, models.Bid{
		UserID:    userID,
		Amount:    amount,
		TimeStamp: time.Now().UTC(),
	})
	switch {
	case errors.Is(err, repositories.ErrBidRejected):
		// another bid got in between the check and the write
		return models.Bid{}, auctionerrors.BelowCurrentAmount(amount)
	case errors.Is(err, repositories.ErrBidderNotFound):
		return models.Bid{}, auctionerrors.UserIDNotFound(userID)
	case err != nil:
		return models.Bid{}, itemError(itemID, err)
	}

	svc.publish(ctx, itemID, bid, item.Floor())
	return bid, nil
}

// checkBid rejects an amount that is not a finite number exceeding the item's floor.
func checkBid(item models.Item, amount float64) error {
	if err := validators.Finite("amount", amount); err != nil {
		return err
	}

	current, ok := item.CurrentBid()
	if !ok {
		if !(amount > item.StartPrice) {
			return auctionerrors.BelowStartPrice(amount)
		}
		return nil
	}
	if !(amount > current.Amount) {
		return auctionerrors.BelowCurrentAmount(amount)
	}
	return nil
}

// publish emits a BidPlaced event; failures are logged only.
func (svc *BiddingService) publish(ctx context.Context, itemID string, bid models.Bid, previous float64) {
	if svc.publisher == nil {
		return
	}

	event := models.BidEvent{
		EventID:        uuid.NewString(),
		ItemID:         itemID,
		BidID:          bid.ID,
		UserID:         bid.UserID,
		Amount:         bid.Amount,
		PreviousAmount: previous,
		Timestamp:      bid.TimeStamp.Unix(),
	}
	if err := svc.publisher.PublishBidPlaced(ctx, event); err != nil {
		logger.Log.Errorw("failed to publish bid event", "event_id", event.EventID, "item_id", itemID, "error", err)
	}
}

// RetrieveItemBids returns the item's bids newest first, each with its
// bidder reduced to a name. Bids of deleted users carry no bidder.
func (svc *BiddingService) RetrieveItemBids(ctx context.Context, itemID, token string) ([]models.BidView, error) {
	if _, err := svc.tokens.GetUserID(ctx, token); err != nil {
		return nil, auctionerrors.InvalidToken(err)
	}

	item, err := svc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, itemError(itemID, err)
	}

	ids := make([]string, 0, len(item.Bids))
	seen := make(map[string]struct{}, len(item.Bids))
	for _, bid := range item.Bids {
		if _, ok := seen[bid.UserID]; ok {
			continue
		}
		seen[bid.UserID] = struct{}{}
		ids = append(ids, bid.UserID)
	}

	bidders, err := svc.users.GetByIDs(ctx, ids)
	if err != nil {
		logger.Log.Errorw("failed to resolve bidders", "item_id", itemID, "err", err)
		return nil, err
	}

	views := make([]models.BidView, 0, len(item.Bids))
	for _, bid := range item.Bids {
		view := models.BidView{
			ID:        bid.ID,
			Amount:    bid.Amount,
			TimeStamp: bid.TimeStamp,
		}
		if u, ok := bidders[bid.UserID]; ok {
			view.User = &models.BidderProfile{Name: u.Name}
		}
		views = append(views, view)
	}
	return views, nil
}
