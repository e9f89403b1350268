package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/application/listing"
	"github.com/sellerbridge/backend/internal/application/orders"
	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// fakeMarketplace implements the marketplace port with overridable
// functions. Unset methods panic through the embedded nil interface.
type fakeMarketplace struct {
	seller.Marketplace

	profile       func(ctx context.Context) (*seller.Profile, error)
	searchIDs     func(ctx context.Context, sellerID string, offset, limit int) ([]string, int64, error)
	details       func(ctx context.Context, ids []string) ([]seller.Listing, error)
	setStatus     func(ctx context.Context, id string, status seller.ListingStatus) error
	searchOrders  func(ctx context.Context, sellerID string, q seller.OrderQuery) ([]seller.Order, int64, error)
	singleOrder   func(ctx context.Context, id string) (*seller.Order, error)
	updateListing func(ctx context.Context, id string, upd seller.ListingUpdate) (*seller.Listing, error)
}

func (f *fakeMarketplace) Profile(ctx context.Context) (*seller.Profile, error) {
	return f.profile(ctx)
}

func (f *fakeMarketplace) SearchListingIDs(ctx context.Context, sellerID string, offset, limit int) ([]string, int64, error) {
	return f.searchIDs(ctx, sellerID, offset, limit)
}

func (f *fakeMarketplace) ListingDetails(ctx context.Context, ids []string) ([]seller.Listing, error) {
	return f.details(ctx, ids)
}

func (f *fakeMarketplace) SetListingStatus(ctx context.Context, id string, status seller.ListingStatus) error {
	return f.setStatus(ctx, id, status)
}

func (f *fakeMarketplace) UpdateListing(ctx context.Context, id string, upd seller.ListingUpdate) (*seller.Listing, error) {
	return f.updateListing(ctx, id, upd)
}

func (f *fakeMarketplace) SearchOrders(ctx context.Context, sellerID string, q seller.OrderQuery) ([]seller.Order, int64, error) {
	return f.searchOrders(ctx, sellerID, q)
}

func (f *fakeMarketplace) Order(ctx context.Context, id string) (*seller.Order, error) {
	return f.singleOrder(ctx, id)
}

func connectedProfile(ctx context.Context) (*seller.Profile, error) {
	return &seller.Profile{ID: "123456", Nickname: "ACME_STORE"}, nil
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func newListingRouter(market *fakeMarketplace) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewListingHandler(listing.NewService(market, zap.NewNop()))

	router := gin.New()
	router.GET("/api/v1/items", h.List)
	router.GET("/api/v1/items/:id", h.Get)
	router.PUT("/api/v1/items/:id", h.Update)
	router.POST("/api/v1/items/:id/pause", h.Pause)
	router.POST("/api/v1/items/:id/activate", h.Activate)
	return router
}

func TestListingListPage(t *testing.T) {
	market := &fakeMarketplace{
		profile: connectedProfile,
		searchIDs: func(_ context.Context, sellerID string, offset, limit int) ([]string, int64, error) {
			assert.Equal(t, "123456", sellerID)
			return []string{"MLA1", "MLA2"}, 2, nil
		},
		details: func(_ context.Context, ids []string) ([]seller.Listing, error) {
			out := make([]seller.Listing, len(ids))
			for i, id := range ids {
				out[i] = seller.Listing{ID: id, Title: "Listing " + id}
			}
			return out, nil
		},
	}
	router := newListingRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items?offset=0&limit=50", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
}

func TestListingListRejectsBadParams(t *testing.T) {
	router := newListingRouter(&fakeMarketplace{})

	for _, target := range []string{
		"/api/v1/items?offset=-1",
		"/api/v1/items?limit=abc",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestListingListNotConnected(t *testing.T) {
	market := &fakeMarketplace{
		profile: func(context.Context) (*seller.Profile, error) {
			return nil, seller.ErrNotConnected
		},
	}
	router := newListingRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeNotConnected, resp.Error.Code)
}

func TestListingGetMissing(t *testing.T) {
	market := &fakeMarketplace{
		details: func(context.Context, []string) ([]seller.Listing, error) {
			return nil, nil
		},
	}
	router := newListingRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/items/MLA404", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
}

func TestListingPause(t *testing.T) {
	var got seller.ListingStatus
	market := &fakeMarketplace{
		setStatus: func(_ context.Context, id string, status seller.ListingStatus) error {
			got = status
			return nil
		},
	}
	router := newListingRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/api/v1/items/MLA1/pause", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, seller.ListingStatusPaused, got)
}

func TestListingUpdateRejectsEmptyPayload(t *testing.T) {
	router := newListingRouter(&fakeMarketplace{})

	req := httptest.NewRequest("PUT", "/api/v1/items/MLA1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newOrderRouter(market *fakeMarketplace) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(orders.NewService(market, zap.NewNop()))

	router := gin.New()
	router.GET("/api/v1/orders", h.List)
	router.GET("/api/v1/orders/:id", h.Get)
	router.GET("/api/v1/orders/stats/summary", h.Summary)
	return router
}

func TestOrderListPassesFilters(t *testing.T) {
	var captured seller.OrderQuery
	market := &fakeMarketplace{
		profile: connectedProfile,
		searchOrders: func(_ context.Context, _ string, q seller.OrderQuery) ([]seller.Order, int64, error) {
			captured = q
			return []seller.Order{{ID: "2001"}}, 1, nil
		},
	}
	router := newOrderRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET",
		"/api/v1/orders?status=paid&from=2026-01-01&to=2026-02-01&offset=10&limit=20", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, seller.OrderStatusPaid, captured.Status)
	require.NotNil(t, captured.From)
	assert.Equal(t, 2026, captured.From.Year())
	assert.Equal(t, 10, captured.Offset)
	assert.Equal(t, 20, captured.Limit)
}

func TestOrderListRejectsBadDate(t *testing.T) {
	router := newOrderRouter(&fakeMarketplace{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderSummaryRejectsInvertedRange(t *testing.T) {
	router := newOrderRouter(&fakeMarketplace{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET",
		"/api/v1/orders/stats/summary?from=2026-02-01&to=2026-01-01", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderSummary(t *testing.T) {
	market := &fakeMarketplace{
		profile: connectedProfile,
		searchOrders: func(_ context.Context, _ string, q seller.OrderQuery) ([]seller.Order, int64, error) {
			return []seller.Order{
				{ID: "2001", Status: seller.OrderStatusPaid, Currency: "ARS"},
			}, 1, nil
		},
	}
	router := newOrderRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/stats/summary", nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	assert.False(t, resp.Meta.Truncated)
}

func TestOrderGetUpstreamValidation(t *testing.T) {
	market := &fakeMarketplace{
		singleOrder: func(context.Context, string) (*seller.Order, error) {
			return nil, seller.ErrUpstreamRejected
		},
	}
	router := newOrderRouter(market)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/2001", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, dto.ErrCodeUpstreamRejected, resp.Error.Code)
}
