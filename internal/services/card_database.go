package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metrics"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// CardDatabaseService reads resolved card rows from the local card database.
// It is the lookup collaborator card records resolve through.
type CardDatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewCardDatabaseService creates a new card database service. A nil db
// yields a service that knows no cards.
func NewCardDatabaseService(db *gorm.DB, log *logger.Logger) *CardDatabaseService {
	if log == nil {
		log = logger.Nop()
	}
	return &CardDatabaseService{db: db, log: log.Named("carddb")}
}

// Lookup returns the row for id with all of its localizations.
// Unknown ids and read failures both report false; failures are logged.
func (s *CardDatabaseService) Lookup(id string) (*models.CardRow, bool) {
	row, err := s.Get(id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("card lookup failed", "id", id, "error", err)
		}
		return nil, false
	}
	return row, true
}

// Get is Lookup with the error kept: gorm.ErrRecordNotFound for unknown ids.
func (s *CardDatabaseService) Get(id string) (*models.CardRow, error) {
	if s.db == nil {
		metrics.CardLookups.WithLabelValues("not_found").Inc()
		return nil, gorm.ErrRecordNotFound
	}

	var row models.CardRow
	err := s.db.Preload("Localizations").Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.CardLookups.WithLabelValues("not_found").Inc()
			return nil, err
		}
		metrics.CardLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup card %s: %w", id, err)
	}

	metrics.CardLookups.WithLabelValues("found").Inc()
	return &row, nil
}

// SearchByName finds cards whose name in loc contains query.
func (s *CardDatabaseService) SearchByName(query string, loc locale.Locale, limit int) ([]models.CardRow, error) {
	if s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var ids []string
	err := s.db.Model(&models.CardLocalization{}).
		Where("locale = ? AND name LIKE ? ESCAPE '\\'", loc, "%"+escapeLike(query)+"%").
		Limit(limit).
		Pluck("card_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("search cards: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.CardRow
	if err := s.db.Preload("Localizations").Where("id IN ?", ids).Order("cost, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	return rows, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern escaped with '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// GetStats returns the number of cards and localizations stored.
func (s *CardDatabaseService) GetStats() (cards int64, localizations int64) {
	if s.db == nil {
		return 0, 0
	}
	s.db.Model(&models.CardRow{}).Count(&cards)
	s.db.Model(&models.CardLocalization{}).Count(&localizations)
	return cards, localizations
}
