package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/listing"
	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// ListingHandler exposes the seller's product listings
type ListingHandler struct {
	BaseHandler
	listings *listing.Service
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listings *listing.Service) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// List returns one page of listings, or the whole inventory when
// all=true is passed. Full scans stop at the marketplace's pagination
// cutoff and flag the truncation in the response meta.
func (h *ListingHandler) List(c *gin.Context) {
	if c.Query("all") == "true" {
		page, truncated, err := h.listings.All(c.Request.Context())
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, page.Listings, &dto.Meta{
			Total:     page.Total,
			Limit:     len(page.Listings),
			Truncated: truncated,
		})
		return
	}

	offset, limit, ok := h.pageParams(c)
	if !ok {
		return
	}

	page, err := h.listings.Page(c.Request.Context(), offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Listings, &dto.Meta{
		Total:  page.Total,
		Offset: page.Offset,
		Limit:  page.Limit,
	})
}

// Get returns a single listing
func (h *ListingHandler) Get(c *gin.Context) {
	id := c.Param("id")

	listings, err := h.listings.Details(c.Request.Context(), []string{id})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(listings) == 0 {
		h.NotFound(c, "listing not found")
		return
	}
	h.Success(c, listings[0])
}

// Update patches price, stock, or title on a listing
func (h *ListingHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var upd seller.ListingUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		h.BadRequest(c, "invalid update payload")
		return
	}
	if upd.IsZero() {
		h.BadRequest(c, "update must set at least one of price, stock, title")
		return
	}

	updated, err := h.listings.Update(c.Request.Context(), id, upd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// Pause sets a listing's status to paused
func (h *ListingHandler) Pause(c *gin.Context) {
	h.setStatus(c, seller.ListingStatusPaused)
}

// Activate sets a listing's status to active
func (h *ListingHandler) Activate(c *gin.Context) {
	h.setStatus(c, seller.ListingStatusActive)
}

func (h *ListingHandler) setStatus(c *gin.Context, status seller.ListingStatus) {
	id := c.Param("id")

	if err := h.listings.SetStatus(c.Request.Context(), id, status); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"id": id, "status": status})
}

func (h *ListingHandler) pageParams(c *gin.Context) (offset, limit int, ok bool) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		h.BadRequest(c, "offset must be a non-negative integer")
		return 0, 0, false
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		h.BadRequest(c, "limit must be a non-negative integer")
		return 0, 0, false
	}
	return offset, limit, true
}
