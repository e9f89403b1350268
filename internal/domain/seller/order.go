package seller

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the state of a marketplace order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a marketplace order reshaped for the dashboard. Upstream
// total_amount relays as Total, paid_amount as Paid.
type Order struct {
	ID          string          `json:"id"`
	Status      OrderStatus     `json:"status"`
	BuyerID     string          `json:"buyer_id"`
	BuyerName   string          `json:"buyer_name"`
	Total       decimal.Decimal `json:"total"`
	Paid        decimal.Decimal `json:"paid"`
	Currency    string          `json:"currency"`
	Items       []OrderItem     `json:"items"`
	ShipmentID  string          `json:"shipment_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ListingID string          `json:"listing_id"`
	Title     string          `json:"title"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderQuery is the filter set for paged order searches.
type OrderQuery struct {
	Status OrderStatus
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// OrderPage is one page of reshaped orders plus the upstream total.
type OrderPage struct {
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// SalesSummary aggregates orders for the dashboard charts.
type SalesSummary struct {
	OrderCount int64                      `json:"order_count"`
	Revenue    decimal.Decimal            `json:"revenue"`
	Currency   string                     `json:"currency"`
	ByStatus   map[OrderStatus]int64      `json:"by_status"`
	ByDay      map[string]DailySalesStats `json:"by_day"`
}

// DailySalesStats is one day's bucket in a SalesSummary. Keys in
// SalesSummary.ByDay use the 2006-01-02 layout.
type DailySalesStats struct {
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}
