package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/fetchbar/internal/app"
	"github.com/yourusername/fetchbar/internal/domain"
	"github.com/yourusername/fetchbar/internal/infrastructure"
	"go.uber.org/zap"
)

// TransferHandler handles transfer-related HTTP requests
type TransferHandler struct {
	manager         *app.TransferManager
	defaultStrategy domain.Strategy
	logger          *zap.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(manager *app.TransferManager, defaultStrategy domain.Strategy, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		manager:         manager,
		defaultStrategy: defaultStrategy,
		logger:          logger,
	}
}

// StartTransferRequest represents a request to start a transfer
type StartTransferRequest struct {
	Strategy string `json:"strategy,omitempty"`
}

// StartTransfer handles POST /api/v1/transfers
func (h *TransferHandler) StartTransfer(c *gin.Context) {
	var req StartTransferRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	strategy := h.strategyOrDefault(req.Strategy)
	if !domain.ValidateStrategy(strategy) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid strategy: " + string(strategy)})
		return
	}

	// Server-side transfers outlive the request and render into the log
	view := infrastructure.NewLogView(h.logger, zap.String("strategy", string(strategy)))
	transfer, err := h.manager.Start(context.Background(), strategy, view)
	if err != nil {
		h.logger.Error("Failed to start transfer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, transfer)
}

// GetTransfer handles GET /api/v1/transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	transfer, err := h.manager.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}

// ListTransfers handles GET /api/v1/transfers
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	filters := make(map[string]interface{})

	if status := c.Query("status"); status != "" {
		filters["status"] = status
	}
	if strategy := c.Query("strategy"); strategy != "" {
		filters["strategy"] = strategy
	}

	transfers, err := h.manager.List(filters)
	if err != nil {
		h.logger.Error("Failed to list transfers", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transfers)
}

// GetStats handles GET /api/v1/transfers/stats
func (h *TransferHandler) GetStats(c *gin.Context) {
	stats, err := h.manager.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CancelTransfer handles POST /api/v1/transfers/:id/cancel
func (h *TransferHandler) CancelTransfer(c *gin.Context) {
	id := c.Param("id")

	if err := h.manager.Cancel(id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transfer cancelled"})
}

// DeleteTransfer handles DELETE /api/v1/transfers/:id
func (h *TransferHandler) DeleteTransfer(c *gin.Context) {
	id := c.Param("id")

	if err := h.manager.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transfer deleted"})
}

func (h *TransferHandler) strategyOrDefault(s string) domain.Strategy {
	if s == "" {
		return h.defaultStrategy
	}
	return domain.Strategy(s)
}

func (h *TransferHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, infrastructure.ErrTransferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "transfer not found"})
	case errors.Is(err, app.ErrNotRunning), errors.Is(err, app.ErrStillRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Transfer request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
