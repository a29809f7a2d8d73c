package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/logger"
	"github.com/samriddhi-edu/asksamriddhi-api/pkg/metrics"
	"go.uber.org/zap"
)

// IngestCallbackRequest is posted by the ingest pipeline when it finishes
// processing a knowledge-base document.
type IngestCallbackRequest struct {
	Document string `json:"document" binding:"required"`
	Status   string `json:"status" binding:"required,oneof=completed failed"`
	Error    string `json:"error"`
}

// IngestHandler receives completion callbacks from the ingest pipeline
type IngestHandler struct{}

// NewIngestHandler creates a new IngestHandler
func NewIngestHandler() *IngestHandler {
	return &IngestHandler{}
}

// Complete handles POST /api/internal/ingest/complete
func (h *IngestHandler) Complete(c *gin.Context) {
	var req IngestCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	metrics.IngestCallbacks.WithLabelValues(req.Status).Inc()

	if req.Status == "failed" {
		logger.Warn("Document ingestion failed",
			zap.String("document", req.Document),
			zap.String("error", req.Error))
	} else {
		logger.Info("Document ingestion completed",
			zap.String("document", req.Document))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
