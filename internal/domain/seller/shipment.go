package seller

import "time"

// ShipmentStatus represents the state of a marketplace shipment
type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusReady     ShipmentStatus = "ready_to_ship"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusNotFound  ShipmentStatus = "not_delivered"
)

// Shipment is a marketplace shipment reshaped for the dashboard.
type Shipment struct {
	ID             string         `json:"id"`
	OrderID        string         `json:"order_id"`
	Status         ShipmentStatus `json:"status"`
	TrackingNumber string         `json:"tracking_number"`
	Carrier        string         `json:"carrier"`
	ReceiverName   string         `json:"receiver_name"`
	City           string         `json:"city"`
	State          string         `json:"state"`
	ZipCode        string         `json:"zip_code"`
	CreatedAt      time.Time      `json:"created_at"`
	ShippedAt      *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time     `json:"delivered_at,omitempty"`
}
