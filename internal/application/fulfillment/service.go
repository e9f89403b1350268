// Package fulfillment exposes shipment tracking for the dashboard.
package fulfillment

import (
	"context"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// Service drives shipment reads.
type Service struct {
	market seller.Marketplace
	logger *zap.Logger
}

// NewService creates a fulfillment service.
func NewService(market seller.Marketplace, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{market: market, logger: logger}
}

// Get returns a single shipment.
func (s *Service) Get(ctx context.Context, id string) (*seller.Shipment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "get")
	defer span.End()

	shipment, err := s.market.Shipment(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return shipment, nil
}

// ForOrder returns the shipments attached to an order. An order with
// no shipments yet returns an empty list, not an error.
func (s *Service) ForOrder(ctx context.Context, orderID string) ([]seller.Shipment, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "for_order",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID))
	defer span.End()

	shipments, err := s.market.OrderShipments(ctx, orderID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if shipments == nil {
		shipments = []seller.Shipment{}
	}
	return shipments, nil
}
