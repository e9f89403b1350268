// Package orders implements the dashboard's order views: paged
// listings, single-order detail, and the sales summary behind the
// revenue charts.
package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// Service drives order reads for the connected seller.
type Service struct {
	market seller.Marketplace
	logger *zap.Logger
}

// NewService creates an orders service.
func NewService(market seller.Marketplace, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{market: market, logger: logger}
}

// Page returns one page of orders matching the query.
func (s *Service) Page(ctx context.Context, q seller.OrderQuery) (*seller.OrderPage, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders", "page")
	defer span.End()

	if q.Limit <= 0 || q.Limit > seller.MaxSearchPageSize {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	profile, err := s.market.Profile(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	results, total, err := s.market.SearchOrders(ctx, profile.ID, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &seller.OrderPage{
		Orders: results,
		Total:  total,
		Offset: q.Offset,
		Limit:  q.Limit,
	}, nil
}

// Get returns a single order.
func (s *Service) Get(ctx context.Context, id string) (*seller.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders", "get",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, id))
	defer span.End()

	order, err := s.market.Order(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return order, nil
}

// Summary aggregates the seller's orders in the given window into the
// counts and revenue buckets the dashboard charts draw from. The scan
// pages through the order search and stops at the record cutoff; a
// truncated summary is flagged so the dashboard can say "first 10,000
// orders" instead of implying completeness.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*seller.SalesSummary, bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders", "summary")
	defer span.End()

	profile, err := s.market.Profile(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, false, err
	}

	summary := &seller.SalesSummary{
		Revenue:  decimal.Zero,
		ByStatus: make(map[seller.OrderStatus]int64),
		ByDay:    make(map[string]seller.DailySalesStats),
	}

	q := seller.OrderQuery{Limit: seller.MaxSearchPageSize}
	if !from.IsZero() {
		q.From = &from
	}
	if !to.IsZero() {
		q.To = &to
	}

	var scanned int
	var total int64
	for {
		page, pageTotal, err := s.market.SearchOrders(ctx, profile.ID, q)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, false, err
		}
		total = pageTotal

		for i := range page {
			s.accumulate(summary, &page[i])
		}
		scanned += len(page)
		q.Offset = scanned

		if len(page) == 0 || int64(scanned) >= pageTotal {
			break
		}
		if scanned >= seller.MaxScanRecords {
			s.logger.Warn("sales summary truncated at record cutoff",
				zap.Int("scanned", scanned),
				zap.Int64("advertised_total", pageTotal))
			break
		}
	}

	truncated := int64(scanned) < total
	telemetry.SetAttribute(span, "order_count", scanned)
	telemetry.SetAttribute(span, "truncated", truncated)
	return summary, truncated, nil
}

// accumulate folds one order into the summary. Cancelled orders count
// toward their status bucket but not toward revenue.
func (s *Service) accumulate(summary *seller.SalesSummary, order *seller.Order) {
	summary.OrderCount++
	summary.ByStatus[order.Status]++
	if summary.Currency == "" {
		summary.Currency = order.Currency
	}

	if order.Status == seller.OrderStatusCancelled {
		return
	}

	summary.Revenue = summary.Revenue.Add(order.Paid)

	day := order.CreatedAt.UTC().Format("2006-01-02")
	daily := summary.ByDay[day]
	daily.OrderCount++
	daily.Revenue = daily.Revenue.Add(order.Paid)
	summary.ByDay[day] = daily
}
