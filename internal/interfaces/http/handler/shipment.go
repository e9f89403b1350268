package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/fulfillment"
)

// ShipmentHandler exposes shipment tracking
type ShipmentHandler struct {
	BaseHandler
	fulfillment *fulfillment.Service
}

// NewShipmentHandler creates a new shipment handler
func NewShipmentHandler(fulfillmentSvc *fulfillment.Service) *ShipmentHandler {
	return &ShipmentHandler{fulfillment: fulfillmentSvc}
}

// Get returns a single shipment
func (h *ShipmentHandler) Get(c *gin.Context) {
	shipment, err := h.fulfillment.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipment)
}

// ForOrder returns the shipments attached to an order
func (h *ShipmentHandler) ForOrder(c *gin.Context) {
	shipments, err := h.fulfillment.ForOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shipments)
}
