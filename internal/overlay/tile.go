package overlay

import (
	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/metacache"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// Tile is the presentation artifact for one visible card: a row in the deck
// list as the renderer draws it.
type Tile struct {
	CardID     string `json:"card_id"`
	Name       string `json:"name"`
	Cost       int    `json:"cost"`
	Count      int    `json:"count"`
	Class      string `json:"class"`
	Rarity     string `json:"rarity"`
	Text       string `json:"text,omitempty"`
	AltText    string `json:"alt_text,omitempty"`
	Created    bool   `json:"created"`
	Jousted    bool   `json:"jousted"`
	Theme      string `json:"theme"`
	FrameColor string `json:"frame_color,omitempty"`
	GemColor   string `json:"gem_color,omitempty"`
	ArtFile    string `json:"art_file"`
}

var rarityColors = map[models.Rarity]string{
	models.RarityCommon:    "#FFFFFF",
	models.RarityRare:      "#0070DD",
	models.RarityEpic:      "#A335EE",
	models.RarityLegendary: "#FF8000",
}

// RarityColor returns the frame/gem color for a rarity, or "" for rarities
// that are drawn uncolored.
func RarityColor(r models.Rarity) string {
	return rarityColors[r]
}

// BuildTile renders r as it looks under snap. Counters come from the
// snapshot so the tile matches the cache key it is stored under.
func BuildTile(r *card.Record, snap metacache.Snapshot) Tile {
	t := Tile{
		CardID:  r.ID(),
		Name:    r.LocalizedName(),
		Cost:    r.Cost(),
		Count:   snap.Count,
		Class:   r.PlayerClassOrNeutral(),
		Rarity:  string(r.Rarity()),
		Text:    r.FormattedText(),
		AltText: r.FormattedAlternativeLanguageText(),
		Created: snap.Created,
		Jousted: snap.Jousted,
		Theme:   snap.Theme,
		ArtFile: r.FileName(),
	}
	if t.Name == "" {
		t.Name = r.ID()
	}
	if snap.ColoredFrame {
		t.FrameColor = RarityColor(r.Rarity())
	}
	if snap.ColoredGem {
		t.GemColor = RarityColor(r.Rarity())
	}
	return t
}
