package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pvandermeer/vosdns/internal/api/models"
	"github.com/pvandermeer/vosdns/internal/helpers"
)

const maxQueryLogLimit = 1000

// QueryLog godoc
// @Summary Recent queries
// @Description Returns recently served DNS queries from the query log, newest first
// @Tags querylog
// @Produce json
// @Param limit query int false "Maximum entries to return (default 100, max 1000)"
// @Success 200 {object} models.QueryLogResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /querylog [get]
func (h *Handler) QueryLog(c *gin.Context) {
	if h.queryLog == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "query log disabled"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = helpers.ClampInt64ToInt(n, 1, maxQueryLogLimit)
		}
	}

	entries, err := h.queryLog.Recent(limit)
	if err != nil {
		h.logger.Error("query log read failed", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "query log unavailable"})
		return
	}
	total, err := h.queryLog.Count()
	if err != nil {
		total = int64(len(entries))
	}

	c.JSON(http.StatusOK, models.QueryLogResponse{Total: total, Entries: entries})
}
