package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/logger"
	"github.com/sellerbridge/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, meta *dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// errorCode maps domain sentinels to envelope error codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, seller.ErrNotConnected):
		return dto.ErrCodeNotConnected
	case errors.Is(err, seller.ErrCredentialExpired):
		return dto.ErrCodeCredentialExpired
	case errors.Is(err, seller.ErrStateMismatch):
		return dto.ErrCodeStateMismatch
	case errors.Is(err, seller.ErrListingNotFound),
		errors.Is(err, seller.ErrOrderNotFound),
		errors.Is(err, seller.ErrShipmentNotFound),
		errors.Is(err, seller.ErrCategoryNotFound),
		errors.Is(err, seller.ErrPictureNotFound):
		return dto.ErrCodeNotFound
	case errors.Is(err, seller.ErrRateLimited):
		return dto.ErrCodeRateLimited
	case errors.Is(err, seller.ErrUpstreamRejected), errors.Is(err, seller.ErrTooManyIDs):
		return dto.ErrCodeUpstreamRejected
	case errors.Is(err, seller.ErrUpstreamUnavailable), errors.Is(err, seller.ErrInvalidResponse):
		return dto.ErrCodeUpstreamUnavailable
	default:
		return dto.ErrCodeInternal
	}
}

// HandleError logs the error with the request-scoped logger and maps it
// to the standard envelope. Unknown errors become 500s with a generic
// message so internals never leak to the dashboard.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := errorCode(err)
	status := dto.GetHTTPStatus(code)

	log := logger.L(c.Request.Context())
	fields := []zap.Field{
		zap.Error(err),
		zap.String("error_code", code),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", getRequestID(c)),
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
	} else {
		log.Warn("request rejected", fields...)
	}

	message := err.Error()
	if code == dto.ErrCodeInternal {
		message = "an unexpected error occurred"
	}
	c.JSON(status, dto.NewErrorResponse(code, message))
}
