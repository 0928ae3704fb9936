package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/atworth/bankfeed/internal/core/ports"
	"github.com/atworth/bankfeed/internal/dto"
	"github.com/atworth/bankfeed/internal/middleware"
	"github.com/gin-gonic/gin"
)

// recordHandler exposes read views over created payment records.
type recordHandler struct {
	records ports.LedgerRecordReader
}

// registerRecordRoutes registers routes over created payment records.
func registerRecordRoutes(rg *gin.RouterGroup, records ports.LedgerRecordReader) {
	h := &recordHandler{records: records}

	rg.GET("/records/recent", h.listRecentRecords)
}

// listRecentRecords returns the records created since local midnight. This
// backs the "records created today" link on the upload status page.
func (h *recordHandler) listRecentRecords(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	records, err := h.records.ListCreatedSince(c.Request.Context(), midnight)
	if err != nil {
		logger.Error("Failed to list recent records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list recent records"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPaymentRecordResponse(records))
}
