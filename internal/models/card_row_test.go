package models

import (
	"testing"

	"github.com/codyseavey/deck-overlay/internal/locale"
)

func TestCardRowLocalizedStrings(t *testing.T) {
	row := &CardRow{
		ID: "EX1_001",
		Localizations: []CardLocalization{
			{CardID: "EX1_001", Locale: locale.EnUS, Name: "Lightwarden", Text: "Whenever a character is healed, gain +2 Attack."},
			{CardID: "EX1_001", Locale: locale.DeDE, Name: "Lichtwächterin"},
		},
	}

	if name, ok := row.LocName(locale.DeDE); !ok || name != "Lichtwächterin" {
		t.Errorf("LocName(deDE) = %q, %v", name, ok)
	}
	if _, ok := row.LocText(locale.DeDE); ok {
		t.Error("Expected no deDE text")
	}
	if _, ok := row.LocName(locale.FrFR); ok {
		t.Error("Expected no frFR name")
	}
	if _, ok := row.LocFlavorText(locale.EnUS); ok {
		t.Error("Expected no enUS flavor text")
	}
}
