package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/auction-live/internal/auctionerrors"
	"github.com/sbilibin2017/auction-live/internal/models"
)

func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockBidPlacer)
		expectedCode int
		expectedBody map[string]any
	}{
		{
			name: "accepted",
			body: `{"amount":15}`,
			mockSetup: func(m *MockBidPlacer) {
				m.EXPECT().PlaceBid(gomock.Any(), "i1", "JWT_TOKEN", 15.0).
					Return(models.Bid{ID: "b1", UserID: "u1", Amount: 15, TimeStamp: ts}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: map[string]any{"id": "b1", "user_id": "u1", "amount": 15.0, "timestamp": "2024-01-02T00:00:00Z"},
		},
		{
			name: "below start price",
			body: `{"amount":5}`,
			mockSetup: func(m *MockBidPlacer) {
				m.EXPECT().PlaceBid(gomock.Any(), "i1", "JWT_TOKEN", 5.0).
					Return(models.Bid{}, auctionerrors.BelowStartPrice(5))
			},
			expectedCode: http.StatusConflict,
			expectedBody: map[string]any{
				"error":  `sorry, the current bid "5" is lower than the start price`,
				"kind":   "domain_rule",
				"params": map[string]any{"amount": 5.0},
			},
		},
		{
			name:         "missing amount",
			body:         `{}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]any{
				"error":  "amount is not optional",
				"kind":   "requirement",
				"params": map[string]any{"field": "amount"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockBidPlacer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/items/i1/bids", bytes.NewBufferString(tt.body))
			req = authorized(withURLParam(req, "id", "i1"), "JWT_TOKEN")
			NewPlaceBidHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, decodeBody(t, rr))
		})
	}
}

func TestRetrieveBidsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	mockSvc := NewMockBidsRetriever(ctrl)
	mockSvc.EXPECT().RetrieveItemBids(gomock.Any(), "i1", "JWT_TOKEN").Return([]models.BidView{
		{ID: "b2", Amount: 20, TimeStamp: ts, User: &models.BidderProfile{Name: "Peter"}},
		{ID: "b1", Amount: 15, TimeStamp: ts},
	}, nil)

	rr := httptest.NewRecorder()
	req := authorized(withURLParam(httptest.NewRequest(http.MethodGet, "/items/i1/bids", nil), "id", "i1"), "JWT_TOKEN")
	NewRetrieveBidsHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[
		{"id":"b2","amount":20,"timestamp":"2024-01-02T00:00:00Z","user":{"name":"Peter"}},
		{"id":"b1","amount":15,"timestamp":"2024-01-02T00:00:00Z","user":null}
	]`, rr.Body.String())
}
