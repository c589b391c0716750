package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/fetchbar/internal/app"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	manager *app.TransferManager
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(manager *app.TransferManager, version string) *HealthHandler {
	return &HealthHandler{
		manager: manager,
		version: version,
	}
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: h.version,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.manager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "transfer manager not initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
