// Package api exposes the sync engine over HTTP. Endpoints run the requested
// operation synchronously and return its result document; scheduling is the
// caller's concern.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quantdata/marketsync/syncer"
)

// Deduper removes duplicate bars; store.Bars implements it.
type Deduper interface {
	Deduplicate(ctx context.Context) (groups, deleted int, err error)
}

type Handler struct {
	engine *syncer.Engine
	bars   Deduper
}

func NewHandler(engine *syncer.Engine, bars Deduper) *Handler {
	return &Handler{engine: engine, bars: bars}
}

// SyncMarket triggers a sync run for one market. An optional date query
// parameter (YYYY-MM-DD) overrides the default sync date.
func (h *Handler) SyncMarket(c *gin.Context) {
	market := c.Param("market")

	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, use YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	result := h.engine.SyncMarket(c.Request.Context(), market, date)
	if result.TotalSymbols() == 0 && len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// FillGaps detects and backfills missing trading days for one market. The
// start and end query parameters (YYYY-MM-DD) are both required.
func (h *Handler) FillGaps(c *gin.Context) {
	market := c.Param("market")

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing start, use YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing end, use YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}

	result := h.engine.DetectAndFillGaps(c.Request.Context(), market, start, end)
	if result.GapsDetected == 0 && len(result.Errors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Completeness reports stored bars against active symbols for one market and
// date. The date query parameter is required.
func (h *Handler) Completeness(c *gin.Context) {
	market := c.Param("market")

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing date, use YYYY-MM-DD"})
		return
	}

	report, err := h.engine.Completeness(c.Request.Context(), market, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Deduplicate converges the store back to one bar per business key.
func (h *Handler) Deduplicate(c *gin.Context) {
	groups, deleted, err := h.bars.Deduplicate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"duplicate_groups": groups,
		"records_deleted":  deleted,
	})
}

func SetupRoutes(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/api/sync/:market", h.SyncMarket)
	r.POST("/api/sync/:market/gaps", h.FillGaps)
	r.GET("/api/sync/:market/completeness", h.Completeness)
	r.POST("/api/maintenance/dedup", h.Deduplicate)

	return r
}
