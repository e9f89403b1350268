// Package listing implements the dashboard's listing use cases on top
// of the marketplace port: full-inventory scans, detail batching, and
// updates.
package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// Service drives listing reads and writes for the connected seller.
type Service struct {
	market seller.Marketplace
	logger *zap.Logger
}

// NewService creates a listing service.
func NewService(market seller.Marketplace, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{market: market, logger: logger}
}

// Page returns one page of fully resolved listings. The id search and
// the detail multiget run as separate upstream calls; detail batches
// are capped, so a page larger than the batch limit fans out into
// several multigets.
func (s *Service) Page(ctx context.Context, offset, limit int) (*seller.ListingPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "page")
	defer span.End()

	if limit <= 0 || limit > seller.MaxSearchPageSize {
		limit = seller.MaxSearchPageSize
	}
	if offset < 0 {
		offset = 0
	}

	profile, err := s.market.Profile(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ids, total, err := s.market.SearchListingIDs(ctx, profile.ID, offset, limit)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	listings, err := s.resolveDetails(ctx, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, "listing_count", len(listings))
	return &seller.ListingPage{
		Listings: listings,
		Total:    total,
		Offset:   offset,
		Limit:    limit,
	}, nil
}

// All scans the seller's entire inventory, page by page, and resolves
// every listing. The scan stops at the record cutoff even when the
// upstream advertises more results; the dashboard shows a truncation
// notice in that case.
func (s *Service) All(ctx context.Context) (*seller.ListingPage, bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "all")
	defer span.End()

	profile, err := s.market.Profile(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}

	var allIDs []string
	var total int64
	offset := 0
	for {
		ids, pageTotal, err := s.market.SearchListingIDs(ctx, profile.ID, offset, seller.MaxSearchPageSize)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, false, err
		}
		total = pageTotal
		allIDs = append(allIDs, ids...)
		offset += len(ids)

		if len(ids) == 0 || int64(offset) >= pageTotal {
			break
		}
		if offset >= seller.MaxScanRecords {
			s.logger.Warn("inventory scan truncated at record cutoff",
				zap.Int("scanned", offset),
				zap.Int64("advertised_total", pageTotal))
			break
		}
	}

	listings, err := s.resolveDetails(ctx, allIDs)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}

	truncated := int64(len(allIDs)) < total
	telemetry.SetAttribute(span, "listing_count", len(listings))
	telemetry.SetAttribute(span, "truncated", truncated)

	return &seller.ListingPage{
		Listings: listings,
		Total:    total,
		Offset:   0,
		Limit:    len(listings),
	}, truncated, nil
}

// Details resolves an arbitrary id list, batching the multiget so that
// no upstream call exceeds the batch limit.
func (s *Service) Details(ctx context.Context, ids []string) ([]seller.Listing, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "details",
		telemetry.WithAttribute(telemetry.SpanAttrBatchSize, len(ids)))
	defer span.End()

	listings, err := s.resolveDetails(ctx, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return listings, nil
}

// Update applies a partial update to a listing.
func (s *Service) Update(ctx context.Context, id string, upd seller.ListingUpdate) (*seller.Listing, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "update",
		telemetry.WithAttribute(telemetry.SpanAttrListingID, id))
	defer span.End()

	if upd.IsZero() {
		return nil, fmt.Errorf("%w: no fields to update", seller.ErrUpstreamRejected)
	}

	updated, err := s.market.UpdateListing(ctx, id, upd)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("listing updated",
		zap.String("listing_id", id),
		zap.Bool("price_changed", upd.Price != nil),
		zap.Bool("stock_changed", upd.Stock != nil))
	return updated, nil
}

// SetStatus pauses, reactivates, or closes a listing.
func (s *Service) SetStatus(ctx context.Context, id string, status seller.ListingStatus) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "listing", "set_status",
		telemetry.WithAttribute(telemetry.SpanAttrListingID, id))
	defer span.End()

	switch status {
	case seller.ListingStatusActive, seller.ListingStatusPaused, seller.ListingStatusClosed:
	default:
		return fmt.Errorf("%w: status %q cannot be requested", seller.ErrUpstreamRejected, status)
	}

	if err := s.market.SetListingStatus(ctx, id, status); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("listing status changed",
		zap.String("listing_id", id),
		zap.String("status", string(status)))
	return nil
}

// resolveDetails fans an id list out into batch-limit sized multigets.
func (s *Service) resolveDetails(ctx context.Context, ids []string) ([]seller.Listing, error) {
	listings := make([]seller.Listing, 0, len(ids))
	for start := 0; start < len(ids); start += seller.MaxDetailBatchSize {
		end := start + seller.MaxDetailBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := s.market.ListingDetails(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		listings = append(listings, batch...)
	}
	return listings, nil
}
