package models

import (
	"time"

	"github.com/codyseavey/deck-overlay/internal/locale"
)

// CardRow is one resolved entry of the card database, with its per-locale strings.
type CardRow struct {
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	ID            string             `json:"id" gorm:"primaryKey"`
	DbfID         int                `json:"dbf_id" gorm:"index"`
	PlayerClass   string             `json:"player_class"`
	Rarity        Rarity             `json:"rarity" gorm:"index"`
	Type          string             `json:"type"`
	Race          string             `json:"race"`
	Artist        string             `json:"artist"`
	Set           string             `json:"set" gorm:"index"`
	Cost          int                `json:"cost"`
	Attack        int                `json:"attack"`
	Health        int                `json:"health"`
	Durability    int                `json:"durability"` // 0 = not a weapon
	Collectible   bool               `json:"collectible"`
	Mechanics     []string           `json:"mechanics" gorm:"serializer:json"`
	Localizations []CardLocalization `json:"localizations,omitempty" gorm:"foreignKey:CardID;references:ID"`
}

func (CardRow) TableName() string {
	return "cards"
}

// LocName returns the card name for loc, if the database has one.
func (c *CardRow) LocName(loc locale.Locale) (string, bool) {
	if l := c.localization(loc); l != nil && l.Name != "" {
		return l.Name, true
	}
	return "", false
}

// LocText returns the raw rules text for loc.
func (c *CardRow) LocText(loc locale.Locale) (string, bool) {
	if l := c.localization(loc); l != nil && l.Text != "" {
		return l.Text, true
	}
	return "", false
}

// LocFlavorText returns the raw flavor text for loc.
func (c *CardRow) LocFlavorText(loc locale.Locale) (string, bool) {
	if l := c.localization(loc); l != nil && l.FlavorText != "" {
		return l.FlavorText, true
	}
	return "", false
}

func (c *CardRow) localization(loc locale.Locale) *CardLocalization {
	for i := range c.Localizations {
		if c.Localizations[i].Locale == loc {
			return &c.Localizations[i]
		}
	}
	return nil
}
