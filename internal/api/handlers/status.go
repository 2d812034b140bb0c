package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/deck-overlay/internal/monitor"
	"github.com/codyseavey/deck-overlay/internal/overlay"
	"github.com/codyseavey/deck-overlay/internal/services"
)

type StatusHandler struct {
	monitor     *monitor.Monitor
	resets      *monitor.ResetCoordinator
	broadcaster *overlay.Broadcaster
	cardDB      *services.CardDatabaseService
}

func NewStatusHandler(mon *monitor.Monitor, resets *monitor.ResetCoordinator, broadcaster *overlay.Broadcaster, cardDB *services.CardDatabaseService) *StatusHandler {
	return &StatusHandler{
		monitor:     mon,
		resets:      resets,
		broadcaster: broadcaster,
		cardDB:      cardDB,
	}
}

// Health is a liveness check
// GET /api/health
func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStatus returns the lifecycle monitor, reset and overlay state
// GET /api/status
func (h *StatusHandler) GetStatus(c *gin.Context) {
	cards, localizations := h.cardDB.GetStats()
	resp := gin.H{
		"monitor":           h.monitor.Status(),
		"overlay":           h.broadcaster.State(),
		"reset_in_progress": h.resets.InProgress(),
		"card_database":     gin.H{"cards": cards, "localizations": localizations},
	}
	if last, ok := h.resets.LastResult(); ok {
		resp["last_reset"] = last
	}
	c.JSON(http.StatusOK, resp)
}

// Reset runs the reset sequence and waits for it to finish
// POST /api/reset
func (h *StatusHandler) Reset(c *gin.Context) {
	if h.resets.InProgress() {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "reset already in progress",
			"message": "A reset is already running. It will reach the same end state.",
		})
		return
	}

	result, err := h.resets.Reset(c.Request.Context())
	if result.Rejected {
		c.JSON(http.StatusConflict, gin.H{"error": "reset already in progress"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":  err.Error(),
			"result": result,
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
