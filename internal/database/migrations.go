package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// RunMigrations runs data migrations after schema changes. Each one is safe
// to run repeatedly.
func RunMigrations(db *gorm.DB, log *logger.Logger) error {
	if log == nil {
		log = logger.Nop()
	}
	if err := migrateLocaleCodes(db, log); err != nil {
		return err
	}
	if err := migrateRarityCase(db, log); err != nil {
		return err
	}
	return nil
}

// migrateLocaleCodes rewrites localizations imported with BCP 47 style codes
// ("en-US", "en_US") to the game's own form ("enUS").
func migrateLocaleCodes(db *gorm.DB, log *logger.Logger) error {
	var legacy []string
	err := db.Model(&models.CardLocalization{}).
		Where("INSTR(locale, '-') > 0 OR INSTR(locale, '_') > 0").
		Distinct().
		Pluck("locale", &legacy).Error
	if err != nil {
		return fmt.Errorf("find legacy locale codes: %w", err)
	}

	for _, raw := range legacy {
		loc, err := locale.Parse(raw)
		if err != nil {
			log.Warn("leaving unrecognized locale code", "locale", raw, "error", err)
			continue
		}
		result := db.Model(&models.CardLocalization{}).
			Where("locale = ?", raw).
			Update("locale", loc)
		if result.Error != nil {
			// A row for the normalized code may already exist.
			log.Warn("failed to migrate locale code", "from", raw, "to", loc, "error", result.Error)
			continue
		}
		log.Info("migrated locale code", "from", raw, "to", loc, "rows", result.RowsAffected)
	}
	return nil
}

// migrateRarityCase upper-cases rarities written by older imports.
func migrateRarityCase(db *gorm.DB, log *logger.Logger) error {
	result := db.Exec(`UPDATE cards SET rarity = UPPER(rarity) WHERE rarity <> UPPER(rarity)`)
	if result.Error != nil {
		return fmt.Errorf("migrate rarity case: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Info("migrated rarity case", "rows", result.RowsAffected)
	}
	return nil
}
