package fulfillment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
)

type fakeMarketplace struct {
	seller.Marketplace

	shipment     *seller.Shipment
	shipmentErr  error
	shipments    []seller.Shipment
	shipmentsErr error
}

func (f *fakeMarketplace) Shipment(context.Context, string) (*seller.Shipment, error) {
	return f.shipment, f.shipmentErr
}

func (f *fakeMarketplace) OrderShipments(context.Context, string) ([]seller.Shipment, error) {
	return f.shipments, f.shipmentsErr
}

func TestGet(t *testing.T) {
	want := &seller.Shipment{ID: "888", Status: seller.ShipmentStatusInTransit}
	svc := NewService(&fakeMarketplace{shipment: want}, zap.NewNop())

	got, err := svc.Get(context.Background(), "888")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetNotFound(t *testing.T) {
	svc := NewService(&fakeMarketplace{shipmentErr: seller.ErrShipmentNotFound}, zap.NewNop())

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, seller.ErrShipmentNotFound)
}

func TestForOrder(t *testing.T) {
	shipments := []seller.Shipment{{ID: "888"}, {ID: "889"}}
	svc := NewService(&fakeMarketplace{shipments: shipments}, zap.NewNop())

	got, err := svc.ForOrder(context.Background(), "555")
	require.NoError(t, err)
	assert.Equal(t, shipments, got)
}

func TestForOrderEmpty(t *testing.T) {
	svc := NewService(&fakeMarketplace{}, zap.NewNop())

	got, err := svc.ForOrder(context.Background(), "555")
	require.NoError(t, err)
	assert.NotNil(t, got, "no shipments yields an empty list, not null")
	assert.Empty(t, got)
}
