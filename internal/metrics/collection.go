package metrics

import (
	"gorm.io/gorm"

	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// UpdateCardDatabaseMetrics queries the card database and refreshes its gauges.
// Call this after an import or at startup.
func UpdateCardDatabaseMetrics(db *gorm.DB, log *logger.Logger) {
	if db == nil {
		return
	}
	if log == nil {
		log = logger.Nop()
	}

	var cardCount int64
	if err := db.Model(&models.CardRow{}).Count(&cardCount).Error; err != nil {
		log.Warn("metrics: failed to count cards", "error", err)
	} else {
		CardDatabaseSize.Set(float64(cardCount))
	}

	type localeCount struct {
		Locale string
		Count  int64
	}
	var counts []localeCount
	if err := db.Model(&models.CardLocalization{}).
		Select("locale, COUNT(*) as count").
		Group("locale").
		Scan(&counts).Error; err != nil {
		log.Warn("metrics: failed to count localizations", "error", err)
		return
	}
	for _, lc := range counts {
		CardLocalizationsByLocale.WithLabelValues(lc.Locale).Set(float64(lc.Count))
	}
}
