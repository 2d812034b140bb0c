package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/deck-overlay/internal/config"
	"github.com/codyseavey/deck-overlay/internal/game"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metacache"
	"github.com/codyseavey/deck-overlay/internal/monitor"
	"github.com/codyseavey/deck-overlay/internal/overlay"
)

type OverlayHandler struct {
	state       *game.State
	tiles       *metacache.Cache[overlay.Tile]
	display     config.Display
	broadcaster *overlay.Broadcaster
	monitor     *monitor.Monitor
	log         *logger.Logger
}

func NewOverlayHandler(
	state *game.State,
	tiles *metacache.Cache[overlay.Tile],
	display config.Display,
	broadcaster *overlay.Broadcaster,
	mon *monitor.Monitor,
	log *logger.Logger,
) *OverlayHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &OverlayHandler{
		state:       state,
		tiles:       tiles,
		display:     display,
		broadcaster: broadcaster,
		monitor:     mon,
		log:         log,
	}
}

func sideParam(c *gin.Context) (game.Side, bool) {
	side, err := game.ParseSide(c.Param("side"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return game.Player, false
	}
	return side, true
}

// GetTiles returns the overlay tiles for one side's tracked cards,
// rebuilding only those whose visible state changed
// GET /api/overlay/:side
func (h *OverlayHandler) GetTiles(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}

	cards := h.state.Sorted(side)
	tiles := make([]overlay.Tile, 0, len(cards))
	for slot, rec := range cards {
		snap := metacache.SnapshotOf(rec, h.display)
		tile, err := h.tiles.GetOrBuild(metacache.Key{CardID: rec.ID(), Slot: slot}, snap, func() (overlay.Tile, error) {
			return overlay.BuildTile(rec, snap), nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		tiles = append(tiles, tile)
	}

	c.JSON(http.StatusOK, gin.H{
		"side":        side.String(),
		"tiles":       tiles,
		"deck_count":  h.state.DeckCount(side),
		"hand_count":  h.state.HandCount(side),
		"board_count": h.state.BoardCount(side),
	})
}

// Events streams overlay notifications as server-sent events
// GET /api/overlay/events
func (h *OverlayHandler) Events(c *gin.Context) {
	events, cancel := h.broadcaster.Subscribe()
	defer cancel()

	h.log.Debug("overlay event stream opened", "remote", c.ClientIP())
	c.SSEvent("state", h.broadcaster.State())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(string(ev.Kind), ev)
			return true
		}
	})
	h.log.Debug("overlay event stream closed", "remote", c.ClientIP())
}

type trackRequest struct {
	CardID  string `json:"card_id" binding:"required"`
	Zone    string `json:"zone"`
	Created bool   `json:"created"`
}

// TrackCard records a card seen for a side and queues an overlay update
// POST /api/game/:side/cards
func (h *OverlayHandler) TrackCard(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}

	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec := h.state.Track(side, req.CardID, game.ParseZone(req.Zone), req.Created)
	h.monitor.RequestUpdate(side)

	c.JSON(http.StatusCreated, gin.H{
		"side":     side.String(),
		"card_id":  rec.ID(),
		"count":    rec.Count(),
		"resolved": rec.IsResolved(),
	})
}

// DiscardCard marks a tracked card as discarded
// POST /api/game/:side/cards/:id/discard
func (h *OverlayHandler) DiscardCard(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}
	if !h.state.Discard(side, c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not tracked"})
		return
	}
	h.monitor.RequestUpdate(side)
	c.JSON(http.StatusOK, gin.H{"side": side.String(), "card_id": c.Param("id"), "discarded": true})
}

type moveRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// MoveCard shifts one copy of a tracked card between zones
// POST /api/game/:side/cards/:id/move
func (h *OverlayHandler) MoveCard(c *gin.Context) {
	side, ok := sideParam(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, to := game.ParseZone(req.From), game.ParseZone(req.To)
	if !h.state.Move(side, c.Param("id"), from, to) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no tracked copy in " + from.String()})
		return
	}
	h.monitor.RequestUpdate(side)
	c.JSON(http.StatusOK, gin.H{
		"side":        side.String(),
		"card_id":     c.Param("id"),
		"from":        from.String(),
		"to":          to.String(),
		"board_count": h.state.BoardCount(side),
	})
}
