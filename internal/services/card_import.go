package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/metrics"
	"github.com/codyseavey/deck-overlay/internal/models"
)

const importBatchSize = 200

// localizedString is either a map keyed by locale or a plain string, which
// single-locale card dumps use and which is taken to be enUS.
type localizedString map[string]string

func (l *localizedString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = localizedString{string(locale.EnUS): plain}
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*l = m
	return nil
}

// ImportCard is one entry of a card data dump.
type ImportCard struct {
	ID          string          `json:"id"`
	DbfID       int             `json:"dbfId"`
	Name        localizedString `json:"name"`
	Text        localizedString `json:"text"`
	Flavor      localizedString `json:"flavor"`
	CardClass   string          `json:"cardClass"`
	Rarity      string          `json:"rarity"`
	Type        string          `json:"type"`
	Cost        int             `json:"cost"`
	Attack      int             `json:"attack"`
	Health      int             `json:"health"`
	Race        string          `json:"race"`
	Durability  int             `json:"durability"`
	Mechanics   []string        `json:"mechanics"`
	Artist      string          `json:"artist"`
	Set         string          `json:"set"`
	Collectible bool            `json:"collectible"`
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Cards         int      `json:"cards"`
	Localizations int      `json:"localizations"`
	Skipped       int      `json:"skipped"`
	Warnings      []string `json:"warnings,omitempty"`
}

// CardImportService loads card data dumps into the card database.
type CardImportService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCardImportService(db *gorm.DB, log *logger.Logger) *CardImportService {
	if log == nil {
		log = logger.Nop()
	}
	return &CardImportService{db: db, log: log.Named("import")}
}

// ImportFile imports the JSON array of cards at path.
func (s *CardImportService) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open card data: %w", err)
	}
	defer f.Close()
	return s.Import(ctx, f)
}

// Import upserts every card in r. Cards without an id or repeating an earlier
// id are skipped, as are localizations under unrecognized locale codes.
// Existing rows are updated.
func (s *CardImportService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var cards []ImportCard
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return nil, fmt.Errorf("decode card data: %w", err)
	}

	result := &ImportResult{}
	rows := make([]models.CardRow, 0, len(cards))
	var locs []models.CardLocalization

	// A statement may not upsert the same row twice, so duplicates are dropped.
	seenCards := make(map[string]bool, len(cards))
	seenLocs := make(map[string]bool)

	for _, c := range cards {
		if strings.TrimSpace(c.ID) == "" || seenCards[c.ID] {
			result.Skipped++
			continue
		}
		seenCards[c.ID] = true
		rows = append(rows, toCardRow(c))

		for raw, name := range c.Name {
			loc, err := locale.Parse(raw)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", c.ID, err))
				continue
			}
			key := c.ID + "/" + string(loc)
			if seenLocs[key] {
				continue
			}
			seenLocs[key] = true
			locs = append(locs, models.CardLocalization{
				CardID:     c.ID,
				Locale:     loc,
				Name:       name,
				Text:       c.Text[raw],
				FlavorText: c.Flavor[raw],
			})
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(rows) > 0 {
			err := tx.Omit("Localizations").Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).CreateInBatches(rows, importBatchSize).Error
			if err != nil {
				return fmt.Errorf("upsert cards: %w", err)
			}
		}
		if len(locs) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "card_id"}, {Name: "locale"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "text", "flavor_text"}),
			}).CreateInBatches(locs, importBatchSize).Error
			if err != nil {
				return fmt.Errorf("upsert localizations: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.Cards = len(rows)
	result.Localizations = len(locs)
	s.log.Info("card data imported",
		"cards", result.Cards,
		"localizations", result.Localizations,
		"skipped", result.Skipped,
		"warnings", len(result.Warnings))

	metrics.UpdateCardDatabaseMetrics(s.db, s.log)
	return result, nil
}

func toCardRow(c ImportCard) models.CardRow {
	return models.CardRow{
		ID:          c.ID,
		DbfID:       c.DbfID,
		PlayerClass: normalizeClass(c.CardClass),
		Rarity:      models.ParseRarity(c.Rarity),
		Type:        titleCase(c.Type),
		Race:        titleCase(c.Race),
		Artist:      c.Artist,
		Set:         c.Set,
		Cost:        c.Cost,
		Attack:      c.Attack,
		Health:      c.Health,
		Durability:  c.Durability,
		Collectible: c.Collectible,
		Mechanics:   c.Mechanics,
	}
}

// normalizeClass turns "DEMONHUNTER" style class codes into display form.
// NEUTRAL is stored as empty.
func normalizeClass(s string) string {
	switch strings.ToUpper(s) {
	case "", "NEUTRAL":
		return ""
	case "DEMONHUNTER":
		return "Demon Hunter"
	case "DEATHKNIGHT":
		return "Death Knight"
	default:
		return titleCase(s)
	}
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(strings.ReplaceAll(s, "_", " ")))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
