package listing

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

// fakeMarketplace implements seller.Marketplace with canned data for
// the listing paths and records the calls it receives.
type fakeMarketplace struct {
	seller.Marketplace // panic on unimplemented methods

	ids          []string
	total        int64
	searchCalls  [][2]int // offset, limit pairs
	detailCalls  [][]string
	searchErr    error
	detailErr    error
	statusCalls  []string
	updateCalls  []seller.ListingUpdate
}

func (f *fakeMarketplace) Profile(context.Context) (*seller.Profile, error) {
	return &seller.Profile{ID: "123456", Nickname: "TESTSELLER"}, nil
}

func (f *fakeMarketplace) SearchListingIDs(_ context.Context, _ string, offset, limit int) ([]string, int64, error) {
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	f.searchCalls = append(f.searchCalls, [2]int{offset, limit})

	if offset >= len(f.ids) {
		return nil, f.total, nil
	}
	end := offset + limit
	if end > len(f.ids) {
		end = len(f.ids)
	}
	return f.ids[offset:end], f.total, nil
}

func (f *fakeMarketplace) ListingDetails(_ context.Context, ids []string) ([]seller.Listing, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	if len(ids) > seller.MaxDetailBatchSize {
		return nil, seller.ErrTooManyIDs
	}
	batch := make([]string, len(ids))
	copy(batch, ids)
	f.detailCalls = append(f.detailCalls, batch)

	listings := make([]seller.Listing, 0, len(ids))
	for _, id := range ids {
		listings = append(listings, seller.Listing{ID: id, Status: seller.ListingStatusActive})
	}
	return listings, nil
}

func (f *fakeMarketplace) UpdateListing(_ context.Context, id string, upd seller.ListingUpdate) (*seller.Listing, error) {
	f.updateCalls = append(f.updateCalls, upd)
	return &seller.Listing{ID: id}, nil
}

func (f *fakeMarketplace) SetListingStatus(_ context.Context, id string, status seller.ListingStatus) error {
	f.statusCalls = append(f.statusCalls, id+":"+string(status))
	return nil
}

func makeIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("MLA%04d", i)
	}
	return ids
}

func TestPageResolvesDetailsInBatches(t *testing.T) {
	market := &fakeMarketplace{ids: makeIDs(50), total: 50}
	svc := NewService(market, zap.NewNop())

	page, err := svc.Page(context.Background(), 0, 50)
	require.NoError(t, err)
	assert.Len(t, page.Listings, 50)
	assert.Equal(t, int64(50), page.Total)

	// 50 ids resolve as 20+20+10
	require.Len(t, market.detailCalls, 3)
	assert.Len(t, market.detailCalls[0], 20)
	assert.Len(t, market.detailCalls[1], 20)
	assert.Len(t, market.detailCalls[2], 10)
}

func TestPageClampsLimit(t *testing.T) {
	market := &fakeMarketplace{ids: makeIDs(10), total: 10}
	svc := NewService(market, zap.NewNop())

	_, err := svc.Page(context.Background(), 0, 5000)
	require.NoError(t, err)
	require.Len(t, market.searchCalls, 1)
	assert.Equal(t, seller.MaxSearchPageSize, market.searchCalls[0][1])
}

func TestAllPaginatesToTotal(t *testing.T) {
	market := &fakeMarketplace{ids: makeIDs(250), total: 250}
	svc := NewService(market, zap.NewNop())

	page, truncated, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.False(t, truncated)
	assert.Len(t, page.Listings, 250)

	// 250 ids need three search pages of 100
	require.Len(t, market.searchCalls, 3)
	assert.Equal(t, [2]int{0, 100}, market.searchCalls[0])
	assert.Equal(t, [2]int{100, 100}, market.searchCalls[1])
	assert.Equal(t, [2]int{200, 100}, market.searchCalls[2])
}

func TestAllStopsAtScanCutoff(t *testing.T) {
	// The upstream advertises more records than the cutoff; the scan
	// must stop at the cutoff and report truncation.
	market := &fakeMarketplace{ids: makeIDs(seller.MaxScanRecords), total: 25000}
	svc := NewService(market, zap.NewNop())

	page, truncated, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.True(t, truncated)
	assert.Len(t, page.Listings, seller.MaxScanRecords)
	assert.Equal(t, int64(25000), page.Total)
	assert.Len(t, market.searchCalls, seller.MaxScanRecords/seller.MaxSearchPageSize)
}

func TestDetailsBatchesLargeInput(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewService(market, zap.NewNop())

	listings, err := svc.Details(context.Background(), makeIDs(45))
	require.NoError(t, err)
	assert.Len(t, listings, 45)
	require.Len(t, market.detailCalls, 3)
	for _, call := range market.detailCalls {
		assert.LessOrEqual(t, len(call), seller.MaxDetailBatchSize)
	}
}

func TestDetailsEmptyInput(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewService(market, zap.NewNop())

	listings, err := svc.Details(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.Empty(t, market.detailCalls)
}

func TestUpdateRejectsEmptyUpdate(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewService(market, zap.NewNop())

	_, err := svc.Update(context.Background(), "MLA1", seller.ListingUpdate{})
	assert.ErrorIs(t, err, seller.ErrUpstreamRejected)
	assert.Empty(t, market.updateCalls)
}

func TestUpdatePassesFields(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewService(market, zap.NewNop())

	price := decimal.NewFromInt(999)
	listing, err := svc.Update(context.Background(), "MLA1", seller.ListingUpdate{Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "MLA1", listing.ID)
	require.Len(t, market.updateCalls, 1)
	assert.NotNil(t, market.updateCalls[0].Price)
}

func TestSetStatus(t *testing.T) {
	market := &fakeMarketplace{}
	svc := NewService(market, zap.NewNop())

	require.NoError(t, svc.SetStatus(context.Background(), "MLA1", seller.ListingStatusPaused))
	assert.Equal(t, []string{"MLA1:paused"}, market.statusCalls)

	// under_review is upstream-assigned, not requestable
	err := svc.SetStatus(context.Background(), "MLA1", seller.ListingStatusUnderRev)
	assert.ErrorIs(t, err, seller.ErrUpstreamRejected)
}
