package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RecordHandler struct {
	service *RecordService
	logger  *slog.Logger
}

func NewRecordHandler(service *RecordService, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{service: service, logger: logger}
}

func (h *RecordHandler) GetLatest(c *gin.Context) {
	records, err := h.service.LatestRecords(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to read records", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *RecordHandler) GetOpportunities(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ops, err := h.service.TopOpportunities(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to read opportunities", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot read records"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(ops), "opportunities": ops})
}

func (h *RecordHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
