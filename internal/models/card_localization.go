package models

import "github.com/codyseavey/deck-overlay/internal/locale"

// CardLocalization holds the strings of one card in one locale.
// Text and FlavorText are stored raw, with markup and sentinels intact;
// normalization happens on read.
type CardLocalization struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	CardID     string        `gorm:"not null;size:64;uniqueIndex:idx_card_locale" json:"card_id"`
	Locale     locale.Locale `gorm:"not null;size:8;uniqueIndex:idx_card_locale" json:"locale"`
	Name       string        `gorm:"not null" json:"name"`
	Text       string        `json:"text"`
	FlavorText string        `json:"flavor_text"`
}

func (CardLocalization) TableName() string {
	return "card_localizations"
}
