package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medcompare/backend/internal/domain"
	"github.com/medcompare/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	compareService *usecase.CompareService
}

// NewHandler creates a new HTTP handler
func NewHandler(compareService *usecase.CompareService) *Handler {
	return &Handler{compareService: compareService}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "medcompare-backend",
		"version": "1.0.0",
	})
}

// Compare handles price comparison requests. Input problems produce a 400
// with a readable message; anything unexpected is a bare 500 with no
// internal detail. An empty result set is a normal 200.
func (h *Handler) Compare(c *gin.Context) {
	var request domain.CompareRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please enter a medicine name"})
		return
	}

	report, err := h.compareService.Compare(c.Request.Context(), request.Query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter a medicine name"})
			return
		}
		log.Printf("[HTTP] compare failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}
