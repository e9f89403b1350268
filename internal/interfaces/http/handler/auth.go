package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellerbridge/backend/internal/application/identity"
)

// AuthHandler exposes the marketplace connect flow
type AuthHandler struct {
	BaseHandler
	identity *identity.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identitySvc *identity.Service) *AuthHandler {
	return &AuthHandler{identity: identitySvc}
}

// Login redirects the browser to the marketplace consent page
func (h *AuthHandler) Login(c *gin.Context) {
	url, err := h.identity.BeginConnect(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback is the OAuth redirect target
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")

	session, err := h.identity.CompleteConnect(c.Request.Context(), code, state)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Status reports the marketplace connection state
func (h *AuthHandler) Status(c *gin.Context) {
	status, err := h.identity.ConnectionStatus(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Disconnect clears the stored marketplace credential
func (h *AuthHandler) Disconnect(c *gin.Context) {
	if err := h.identity.Disconnect(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
