package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/media"
)

// ImageHandler exposes listing image upload and lookup
type ImageHandler struct {
	BaseHandler
	media *media.Service
}

// NewImageHandler creates a new image handler
func NewImageHandler(mediaSvc *media.Service) *ImageHandler {
	return &ImageHandler{media: mediaSvc}
}

// Upload accepts a multipart image and relays it to the marketplace
func (h *ImageHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "multipart field 'file' is required")
		return
	}
	if fileHeader.Size > media.MaxImageBytes {
		h.BadRequest(c, "image exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, media.MaxImageBytes+1))
	if err != nil {
		h.BadRequest(c, "cannot read uploaded file")
		return
	}

	picture, err := h.media.Upload(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, picture)
}

// Get returns picture metadata and URLs
func (h *ImageHandler) Get(c *gin.Context) {
	picture, err := h.media.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, picture)
}
