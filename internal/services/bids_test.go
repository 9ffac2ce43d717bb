package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/models"
	"github.com/sbilibin2017/auction-live/internal/repositories"
)

func TestCheckBid(t *testing.T) {
	fresh := models.Item{StartPrice: 10}
	withBid := models.Item{StartPrice: 10, Bids: []models.Bid{{Amount: 15}, {Amount: 12}}}

	tests := []struct {
		name     string
		item     models.Item
		amount   float64
		wantKind error
		wantMsg  string
	}{
		{name: "above start price", item: fresh, amount: 10.01},
		{name: "equal to start price", item: fresh, amount: 10, wantMsg: `sorry, the current bid "10" is lower than the start price`},
		{name: "below start price", item: fresh, amount: 5, wantMsg: `sorry, the current bid "5" is lower than the start price`},
		{name: "above current amount", item: withBid, amount: 16},
		{name: "equal to current amount", item: withBid, amount: 15, wantMsg: `sorry, the bid "15" is lower than the current amount`},
		{name: "between start and current", item: withBid, amount: 13, wantMsg: `sorry, the bid "13" is lower than the current amount`},
		{name: "NaN on fresh item", item: fresh, amount: math.NaN(), wantKind: auctionerrors.ErrFormat, wantMsg: `amount "NaN" is not valid`},
		{name: "NaN over current amount", item: withBid, amount: math.NaN(), wantKind: auctionerrors.ErrFormat, wantMsg: `amount "NaN" is not valid`},
		{name: "positive infinity", item: withBid, amount: math.Inf(1), wantKind: auctionerrors.ErrFormat, wantMsg: `amount "+Inf" is not valid`},
		{name: "negative infinity", item: fresh, amount: math.Inf(-1), wantKind: auctionerrors.ErrFormat, wantMsg: `amount "-Inf" is not valid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkBid(tt.item, tt.amount)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			kind := tt.wantKind
			if kind == nil {
				kind = auctionerrors.ErrDomainRule
			}
			assert.ErrorIs(t, err, kind)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestBiddingService_PlaceBid(t *testing.T) {
	ctx := context.Background()
	item := models.Item{ID: "i1", StartPrice: 10, Bids: []models.Bid{{ID: "b0", UserID: "u2", Amount: 12}}}
	stored := models.Bid{ID: "b1", UserID: "u1", Amount: 15, TimeStamp: time.Unix(1700000000, 0).UTC()}

	tests := []struct {
		name    string
		amount  float64
		setup   func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher)
		want    models.Bid
		wantErr error
		wantMsg string
	}{
		{
			name: "accepted and published", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
				users.EXPECT().GetByID(ctx, "u1").Return(models.User{ID: "u1"}, nil)
				items.EXPECT().PlaceBid(ctx, "i1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, bid models.Bid) (models.Bid, error) {
					assert.Equal(t, "u1", bid.UserID)
					assert.Equal(t, 15.0, bid.Amount)
					assert.False(t, bid.TimeStamp.IsZero())
					return stored, nil
				})
				pub.EXPECT().PublishBidPlaced(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e models.BidEvent) error {
					assert.NotEmpty(t, e.EventID)
					assert.Equal(t, "i1", e.ItemID)
					assert.Equal(t, "b1", e.BidID)
					assert.Equal(t, "u1", e.UserID)
					assert.Equal(t, 15.0, e.Amount)
					assert.Equal(t, 12.0, e.PreviousAmount)
					assert.Equal(t, int64(1700000000), e.Timestamp)
					return nil
				})
			},
			want: stored,
		},
		{
			name: "publish failure is not returned", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
				users.EXPECT().GetByID(ctx, "u1").Return(models.User{ID: "u1"}, nil)
				items.EXPECT().PlaceBid(ctx, "i1", gomock.Any()).Return(stored, nil)
				pub.EXPECT().PublishBidPlaced(ctx, gomock.Any()).Return(errors.New("kafka down"))
			},
			want: stored,
		},
		{
			name: "invalid token", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("", errors.New("token has invalid claims: token is expired"))
			},
			wantErr: auctionerrors.ErrUnauthorized,
			wantMsg: "token has invalid claims: token is expired",
		},
		{
			name: "NaN amount never reaches the store", amount: math.NaN(),
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
			},
			wantErr: auctionerrors.ErrFormat,
			wantMsg: `amount "NaN" is not valid`,
		},
		{
			name: "unknown item", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(models.Item{}, repositories.ErrNotFound)
			},
			wantErr: auctionerrors.ErrNotFound,
			wantMsg: `item with id "i1" doesn't exist`,
		},
		{
			name: "too low", amount: 12,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
			},
			wantErr: auctionerrors.ErrDomainRule,
			wantMsg: `sorry, the bid "12" is lower than the current amount`,
		},
		{
			name: "bidder deleted", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
				users.EXPECT().GetByID(ctx, "u1").Return(models.User{}, repositories.ErrNotFound)
			},
			wantErr: auctionerrors.ErrNotFound,
			wantMsg: `user with id "u1" does not exist`,
		},
		{
			name: "lost race", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
				users.EXPECT().GetByID(ctx, "u1").Return(models.User{ID: "u1"}, nil)
				items.EXPECT().PlaceBid(ctx, "i1", gomock.Any()).Return(models.Bid{}, repositories.ErrBidRejected)
			},
			wantErr: auctionerrors.ErrDomainRule,
			wantMsg: `sorry, the bid "15" is lower than the current amount`,
		},
		{
			name: "bidder deleted during write", amount: 15,
			setup: func(items *MockBidRepository, users *MockBidderReader, tokens *MockTokenVerifier, pub *MockBidPublisher) {
				tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
				items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
				users.EXPECT().GetByID(ctx, "u1").Return(models.User{ID: "u1"}, nil)
				items.EXPECT().PlaceBid(ctx, "i1", gomock.Any()).Return(models.Bid{}, repositories.ErrBidderNotFound)
			},
			wantErr: auctionerrors.ErrNotFound,
			wantMsg: `user with id "u1" does not exist`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			items := NewMockBidRepository(ctrl)
			users := NewMockBidderReader(ctrl)
			tokens := NewMockTokenVerifier(ctrl)
			pub := NewMockBidPublisher(ctrl)
			tt.setup(items, users, tokens, pub)

			bid, err := NewBiddingService(items, users, tokens, pub).PlaceBid(ctx, "i1", "token", tt.amount)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, bid)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestBiddingService_PlaceBidWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	items := NewMockBidRepository(ctrl)
	users := NewMockBidderReader(ctrl)
	tokens := NewMockTokenVerifier(ctrl)

	tokens.EXPECT().GetUserID(ctx, "token").Return("u1", nil)
	items.EXPECT().GetByID(ctx, "i1").Return(models.Item{ID: "i1", StartPrice: 10}, nil)
	users.EXPECT().GetByID(ctx, "u1").Return(models.User{ID: "u1"}, nil)
	items.EXPECT().PlaceBid(ctx, "i1", gomock.Any()).Return(models.Bid{ID: "b1", UserID: "u1", Amount: 11}, nil)

	bid, err := NewBiddingService(items, users, tokens, nil).PlaceBid(ctx, "i1", "token", 11)
	require.NoError(t, err)
	assert.Equal(t, "b1", bid.ID)
}

func TestBiddingService_RetrieveItemBids(t *testing.T) {
	ctx := context.Background()
	ts := time.Unix(1700000000, 0).UTC()
	item := models.Item{ID: "i1", StartPrice: 10, Bids: []models.Bid{
		{ID: "b3", UserID: "u1", Amount: 20, TimeStamp: ts.Add(2 * time.Minute)},
		{ID: "b2", UserID: "gone", Amount: 15, TimeStamp: ts.Add(time.Minute)},
		{ID: "b1", UserID: "u1", Amount: 11, TimeStamp: ts},
	}}

	t.Run("bidders resolved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := NewMockBidRepository(ctrl)
		users := NewMockBidderReader(ctrl)
		tokens := NewMockTokenVerifier(ctrl)

		tokens.EXPECT().GetUserID(ctx, "token").Return("u9", nil)
		items.EXPECT().GetByID(ctx, "i1").Return(item, nil)
		users.EXPECT().GetByIDs(ctx, []string{"u1", "gone"}).Return(map[string]models.User{
			"u1": {ID: "u1", Name: "Peter", Email: "peter@parker.com"},
		}, nil)

		views, err := NewBiddingService(items, users, tokens, nil).RetrieveItemBids(ctx, "i1", "token")
		require.NoError(t, err)
		assert.Equal(t, []models.BidView{
			{ID: "b3", Amount: 20, TimeStamp: ts.Add(2 * time.Minute), User: &models.BidderProfile{Name: "Peter"}},
			{ID: "b2", Amount: 15, TimeStamp: ts.Add(time.Minute)},
			{ID: "b1", Amount: 11, TimeStamp: ts, User: &models.BidderProfile{Name: "Peter"}},
		}, views)
	})

	t.Run("no bids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := NewMockBidRepository(ctrl)
		users := NewMockBidderReader(ctrl)
		tokens := NewMockTokenVerifier(ctrl)

		tokens.EXPECT().GetUserID(ctx, "token").Return("u9", nil)
		items.EXPECT().GetByID(ctx, "i1").Return(models.Item{ID: "i1"}, nil)
		users.EXPECT().GetByIDs(ctx, []string{}).Return(map[string]models.User{}, nil)

		views, err := NewBiddingService(items, users, tokens, nil).RetrieveItemBids(ctx, "i1", "token")
		require.NoError(t, err)
		assert.Empty(t, views)
		assert.NotNil(t, views)
	})

	t.Run("invalid token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		tokens := NewMockTokenVerifier(ctrl)
		tokens.EXPECT().GetUserID(ctx, "token").Return("", errors.New("token is malformed"))

		_, err := NewBiddingService(NewMockBidRepository(ctrl), NewMockBidderReader(ctrl), tokens, nil).RetrieveItemBids(ctx, "i1", "token")
		assert.ErrorIs(t, err, auctionerrors.ErrUnauthorized)
	})

	t.Run("malformed item id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		items := NewMockBidRepository(ctrl)
		tokens := NewMockTokenVerifier(ctrl)
		tokens.EXPECT().GetUserID(ctx, "token").Return("u9", nil)
		items.EXPECT().GetByID(ctx, "bogus").Return(models.Item{}, repositories.ErrInvalidID)

		_, err := NewBiddingService(items, NewMockBidderReader(ctrl), tokens, nil).RetrieveItemBids(ctx, "bogus", "token")
		assert.ErrorIs(t, err, auctionerrors.ErrFormat)
		assert.EqualError(t, err, `id "bogus" is not valid`)
	})
}
