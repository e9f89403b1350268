package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/orders"
	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// defaultSummaryWindow is applied when the stats endpoint gets no
// explicit date range.
const defaultSummaryWindow = 30 * 24 * time.Hour

// OrderHandler exposes the seller's orders and sales stats
type OrderHandler struct {
	BaseHandler
	orders *orders.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(ordersSvc *orders.Service) *OrderHandler {
	return &OrderHandler{orders: ordersSvc}
}

// List returns one page of orders filtered by status and date range
func (h *OrderHandler) List(c *gin.Context) {
	q := seller.OrderQuery{
		Status: seller.OrderStatus(c.Query("status")),
	}

	var err error
	if q.Offset, err = strconv.Atoi(c.DefaultQuery("offset", "0")); err != nil || q.Offset < 0 {
		h.BadRequest(c, "offset must be a non-negative integer")
		return
	}
	if q.Limit, err = strconv.Atoi(c.DefaultQuery("limit", "50")); err != nil || q.Limit < 0 {
		h.BadRequest(c, "limit must be a non-negative integer")
		return
	}

	from, ok := h.dateParam(c, "from")
	if !ok {
		return
	}
	to, ok := h.dateParam(c, "to")
	if !ok {
		return
	}
	q.From = from
	q.To = to

	page, err := h.orders.Page(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Orders, &dto.Meta{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	})
}

// Get returns a single order
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Summary returns aggregated sales stats for the dashboard charts.
// The scan stops at the marketplace's pagination cutoff; a truncated
// flag in the meta tells the dashboard the numbers are partial.
func (h *OrderHandler) Summary(c *gin.Context) {
	now := time.Now().UTC()
	from := now.Add(-defaultSummaryWindow)
	to := now

	if p, ok := h.dateParam(c, "from"); !ok {
		return
	} else if p != nil {
		from = *p
	}
	if p, ok := h.dateParam(c, "to"); !ok {
		return
	} else if p != nil {
		to = *p
	}
	if to.Before(from) {
		h.BadRequest(c, "to must not be before from")
		return
	}

	summary, truncated, err := h.orders.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, summary, &dto.Meta{
		Total:     summary.OrderCount,
		Truncated: truncated,
	})
}

// dateParam parses an RFC3339 or 2006-01-02 query parameter.
func (h *OrderHandler) dateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true
	}
	h.BadRequest(c, name+" must be an RFC3339 timestamp or a 2006-01-02 date")
	return nil, false
}
