// Package locale handles the game client's locale codes ("enUS", "deDE", ...).
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a game locale in the client's compact form, e.g. "enUS".
type Locale string

const (
	EnUS Locale = "enUS"
	DeDE Locale = "deDE"
	EsES Locale = "esES"
	EsMX Locale = "esMX"
	FrFR Locale = "frFR"
	ItIT Locale = "itIT"
	JaJP Locale = "jaJP"
	KoKR Locale = "koKR"
	PlPL Locale = "plPL"
	PtBR Locale = "ptBR"
	RuRU Locale = "ruRU"
	ThTH Locale = "thTH"
	ZhCN Locale = "zhCN"
	ZhTW Locale = "zhTW"
)

var supported = map[Locale]bool{
	EnUS: true, DeDE: true, EsES: true, EsMX: true, FrFR: true, ItIT: true, JaJP: true,
	KoKR: true, PlPL: true, PtBR: true, RuRU: true, ThTH: true, ZhCN: true, ZhTW: true,
}

// ErrUnsupported is returned for well-formed tags the card data has no strings for.
var ErrUnsupported = errors.New("locale not supported")

// Parse accepts "enUS", "en-US" or "en_US" and returns the compact form.
func Parse(raw string) (Locale, error) {
	raw = strings.TrimSpace(raw)
	tag := strings.ReplaceAll(raw, "_", "-")
	if len(tag) == 4 && !strings.Contains(tag, "-") {
		tag = tag[:2] + "-" + tag[2:]
	}

	parsed, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", raw, err)
	}
	base, _ := parsed.Base()
	region, conf := parsed.Region()
	if conf != language.Exact {
		return "", fmt.Errorf("parse locale %q: region required", raw)
	}

	loc := Locale(base.String() + region.String())
	if !supported[loc] {
		return "", fmt.Errorf("parse locale %q: %w", raw, ErrUnsupported)
	}
	return loc, nil
}

// ParseOr returns fallback when raw cannot be parsed.
func ParseOr(raw string, fallback Locale) Locale {
	loc, err := Parse(raw)
	if err != nil {
		return fallback
	}
	return loc
}

func (l Locale) String() string {
	return string(l)
}
