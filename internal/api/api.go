package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/snapshot"
)

const refreshTimeout = 2 * time.Minute

// Refresher triggers a refresh across the selected exchanges.
type Refresher interface {
	Refresh(ctx context.Context, selector snapshot.Selector) (*snapshot.Snapshot, error)
}

// Handler serves the dashboard API: refresh on demand, then read the current
// snapshot's rows, events, and stats.
type Handler struct {
	refresher Refresher
	store     *snapshot.Store
}

func NewHandler(refresher Refresher, store *snapshot.Store) *Handler {
	return &Handler{refresher: refresher, store: store}
}

// Router builds the gin engine with all routes attached.
func (h *Handler) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/refresh", h.PostRefresh)
	router.GET("/rows", h.GetRows)
	router.GET("/events", h.GetEvents)
	router.GET("/stats", h.GetStats)
	router.GET("/health", h.Health)

	return router
}

// PostRefresh handles POST /refresh?platform=kalshi|polymarket|both.
func (h *Handler) PostRefresh(c *gin.Context) {
	selector, err := snapshot.ParseSelector(c.Query("platform"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), refreshTimeout)
	defer cancel()

	snap, err := h.refresher.Refresh(ctx, selector)
	if err != nil {
		logging.Errorf("refresh via API failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":       snap.ID,
		"taken_at": snap.TakenAt,
		"selector": snap.Selector,
		"rows":     len(snap.Rows),
		"events":   len(snap.Events),
	})
}

func (h *Handler) GetRows(c *gin.Context) {
	snap, ok := h.currentOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"taken_at":    snap.TakenAt,
		"rows":        snap.Rows,
	})
}

func (h *Handler) GetEvents(c *gin.Context) {
	snap, ok := h.currentOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"taken_at":    snap.TakenAt,
		"events":      snap.Events,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	snap, ok := h.currentOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"snapshot_id": snap.ID,
		"taken_at":    snap.TakenAt,
		"stats":       snap.Stats,
	})
}

func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if snap := h.store.Current(); snap != nil {
		resp["last_refresh"] = snap.TakenAt
	}
	c.JSON(http.StatusOK, resp)
}

// currentOr404 fetches the current snapshot or answers 404 when no refresh
// has happened yet.
func (h *Handler) currentOr404(c *gin.Context) (*snapshot.Snapshot, bool) {
	snap := h.store.Current()
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no data yet, POST /refresh first"})
		return nil, false
	}
	return snap, true
}
