package http

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
)

// User-facing error messages; internal parse diagnostics are never exposed
const (
	msgInvalidURL        = "a valid %s product URL is required"
	msgUpstreamFailure   = "product page could not be reached"
	msgExtractionFailure = "product details could not be extracted"
	msgNotConfigured     = "extraction service not configured"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	products    domain.ProductSource
	allowedHost string
}

// NewHandler creates a new HTTP handler. allowedHost names the commerce
// domain in validation messages.
func NewHandler(products domain.ProductSource, allowedHost string) *Handler {
	if allowedHost == "" {
		allowedHost = "trendyol.com"
	}
	return &Handler{products: products, allowedHost: allowedHost}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "pricelens-backend",
		"version": "1.0.0",
	})
}

// ExtractProduct handles product extraction requests
func (h *Handler) ExtractProduct(c *gin.Context) {
	if h.products == nil {
		c.JSON(http.StatusServiceUnavailable, domain.ErrorResponse{Error: msgNotConfigured})
		return
	}

	var req domain.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: h.invalidURLMessage()})
		return
	}

	record, err := h.products.Extract(c.Request.Context(), req.URL)
	if err != nil {
		status, message := h.errorStatus(err)
		if status != http.StatusBadRequest {
			log.Printf("[HTTP] extract %q failed: %v", req.URL, err)
		}
		c.JSON(status, domain.ErrorResponse{Error: message})
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *Handler) invalidURLMessage() string {
	return fmt.Sprintf(msgInvalidURL, h.allowedHost)
}

// errorStatus maps a domain error to its HTTP status and public message
func (h *Handler) errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, h.invalidURLMessage()
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway, msgUpstreamFailure
	default:
		return http.StatusInternalServerError, msgExtractionFailure
	}
}
