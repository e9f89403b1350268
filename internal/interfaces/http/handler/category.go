package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/catalog"
)

// CategoryHandler exposes category prediction and lookup
type CategoryHandler struct {
	BaseHandler
	catalog *catalog.Service
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(catalogSvc *catalog.Service) *CategoryHandler {
	return &CategoryHandler{catalog: catalogSvc}
}

// Predict returns the marketplace's best category guess for a title
func (h *CategoryHandler) Predict(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		h.BadRequest(c, "title query parameter is required")
		return
	}

	prediction, err := h.catalog.Predict(c.Request.Context(), title)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prediction)
}

// Get returns a category with its path to root
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}
