package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/services"
)

// maxArtBytes caps uploaded card art.
const maxArtBytes = 8 << 20

type CardHandler struct {
	cardDB   *services.CardDatabaseService
	resolver *card.Resolver
	art      *services.ArtStorageService
}

func NewCardHandler(cardDB *services.CardDatabaseService, resolver *card.Resolver, art *services.ArtStorageService) *CardHandler {
	return &CardHandler{
		cardDB:   cardDB,
		resolver: resolver,
		art:      art,
	}
}

// CardView is a card record with its derived values, as served to clients.
type CardView struct {
	ID                      string   `json:"id"`
	Resolved                bool     `json:"resolved"`
	Name                    string   `json:"name"`
	LocalizedName           string   `json:"localized_name"`
	PlayerClass             string   `json:"player_class"`
	IsClassCard             bool     `json:"is_class_card"`
	Rarity                  string   `json:"rarity"`
	Type                    string   `json:"type"`
	Cost                    int      `json:"cost"`
	Attack                  int      `json:"attack"`
	Health                  int      `json:"health"`
	Race                    string   `json:"race,omitempty"`
	RaceOrType              string   `json:"race_or_type"`
	DurabilityOrHealth      int      `json:"durability_or_health"`
	Text                    string   `json:"text"`
	FormattedText           string   `json:"formatted_text"`
	EnglishText             string   `json:"english_text"`
	FlavorText              string   `json:"flavor_text,omitempty"`
	AlternativeNames        []string `json:"alternative_names"`
	AlternativeTexts        []string `json:"alternative_texts"`
	AlternativeLanguageText string   `json:"alternative_language_text,omitempty"`
	Mechanics               []string `json:"mechanics,omitempty"`
	Overload                int      `json:"overload"`
	DustCost                int      `json:"dust_cost"`
	Artist                  string   `json:"artist,omitempty"`
	Set                     string   `json:"set"`
	Collectible             bool     `json:"collectible"`
	FileName                string   `json:"file_name"`
}

func NewCardView(r *card.Record) CardView {
	return CardView{
		ID:                      r.ID(),
		Resolved:                r.IsResolved(),
		Name:                    r.Name(),
		LocalizedName:           r.LocalizedName(),
		PlayerClass:             r.PlayerClassOrNeutral(),
		IsClassCard:             r.IsClassCard(),
		Rarity:                  string(r.Rarity()),
		Type:                    r.Type(),
		Cost:                    r.Cost(),
		Attack:                  r.Attack(),
		Health:                  r.Health(),
		Race:                    r.Race(),
		RaceOrType:              r.RaceOrType(),
		DurabilityOrHealth:      r.DurabilityOrHealth(),
		Text:                    r.Text(),
		FormattedText:           r.FormattedText(),
		EnglishText:             r.EnglishText(),
		FlavorText:              r.FlavorText(),
		AlternativeNames:        r.AlternativeNames(),
		AlternativeTexts:        r.AlternativeTexts(),
		AlternativeLanguageText: r.AlternativeLanguageText(),
		Mechanics:               r.Mechanics(),
		Overload:                r.Overload(),
		DustCost:                r.DustCost(),
		Artist:                  r.Artist(),
		Set:                     r.Set(),
		Collectible:             r.Collectible(),
		FileName:                r.FileName(),
	}
}

// GetCard returns a resolved card with its derived values
// GET /api/cards/:id
func (h *CardHandler) GetCard(c *gin.Context) {
	rec := h.resolver.Resolve(c.Param("id"))
	if !rec.IsResolved() {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, NewCardView(rec))
}

// SearchCards finds cards by name in the configured language
// GET /api/cards?q=<name>&limit=<n>
func (h *CardHandler) SearchCards(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	loc := locale.ParseOr(c.Query("locale"), h.resolver.Languages().Primary)

	rows, err := h.cardDB.SearchByName(query, loc, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	views := make([]CardView, 0, len(rows))
	for i := range rows {
		views = append(views, NewCardView(card.FromRow(&rows[i], h.resolver.Languages())))
	}
	c.JSON(http.StatusOK, gin.H{"cards": views, "total": len(views)})
}

// GetCardArt serves the stored art for a card
// GET /api/cards/:id/art
func (h *CardHandler) GetCardArt(c *gin.Context) {
	path, ok := h.art.ArtPath(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "art not found"})
		return
	}
	c.File(path)
}

// PutCardArt stores art for a card from the raw request body
// PUT /api/cards/:id/art
func (h *CardHandler) PutCardArt(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.cardDB.Get(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxArtBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if len(data) > maxArtBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	filename, err := h.art.SaveArt(id, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"card_id": id, "file": filename})
}
