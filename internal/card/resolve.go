package card

import (
	"github.com/codyseavey/deck-overlay/internal/config"
	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/logger"
	"github.com/codyseavey/deck-overlay/internal/models"
)

// Database is the external card database. Lookup reports false for unknown ids.
type Database interface {
	Lookup(id string) (*models.CardRow, bool)
}

// Languages selects which localized strings a record resolves.
type Languages struct {
	Primary      locale.Locale
	Alternatives []string // raw config entries; unparseable ones are skipped
}

// LanguagesFrom reads the language selection out of the display configuration.
func LanguagesFrom(display config.Display) Languages {
	return Languages{
		Primary:      locale.ParseOr(display.Language, locale.EnUS),
		Alternatives: display.AlternativeLanguages,
	}
}

// Resolver binds a Database to a language selection. Records created with
// WithResolver resolve themselves through it on first use.
type Resolver struct {
	db        Database
	languages Languages
}

// NewResolver validates the alternative languages up front so a bad entry is
// reported once instead of on every resolution.
func NewResolver(db Database, languages Languages, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	for _, raw := range languages.Alternatives {
		if _, err := locale.Parse(raw); err != nil {
			log.Warn("skipping alternative language", "language", raw, "error", err)
		}
	}
	return &Resolver{db: db, languages: languages}
}

func (r *Resolver) Languages() Languages {
	return r.languages
}

// Resolve returns a populated record for id, or a shallow one bound to this
// resolver when the id is unknown.
func (r *Resolver) Resolve(id string) *Record {
	if row, ok := r.db.Lookup(id); ok {
		rec := FromRow(row, r.languages)
		rec.resolver = r
		return rec
	}
	rec := New(id, WithResolver(r))
	rec.attempted = true
	return rec
}

// FromRow builds a fully populated record from a database row.
func FromRow(row *models.CardRow, langs Languages) *Record {
	r := &Record{
		id:          row.ID,
		state:       Resolved,
		count:       1,
		playerClass: row.PlayerClass,
		rarity:      row.Rarity,
		cardType:    row.Type,
		race:        row.Race,
		cost:        row.Cost,
		attack:      row.Attack,
		health:      row.Health,
		artist:      row.Artist,
		set:         row.Set,
		collectible: row.Collectible,
		mechanics:   append([]string(nil), row.Mechanics...),
	}
	if row.Durability > 0 {
		d := row.Durability
		r.durability = &d
	}

	primary := langs.Primary
	if primary == "" {
		primary = locale.EnUS
	}
	r.name, _ = row.LocName(locale.EnUS)
	r.localizedName, _ = row.LocName(primary)
	r.text, _ = row.LocText(primary)
	r.englishText, _ = row.LocText(locale.EnUS)
	r.flavorText, _ = row.LocFlavorText(primary)

	for _, raw := range langs.Alternatives {
		loc, err := locale.Parse(raw)
		if err != nil {
			continue
		}
		// Append the pair even if a value is missing so indexes stay aligned.
		name, _ := row.LocName(loc)
		text, _ := row.LocText(loc)
		r.alternativeNames = append(r.alternativeNames, name)
		r.alternativeTexts = append(r.alternativeTexts, text)
	}
	return r
}

// Load resolves a shallow record from the resolver's database. It is a no-op
// on a resolved record. An unknown id leaves the record unresolved and reports false.
func (r *Record) Load(res *Resolver) bool {
	r.mu.Lock()
	if r.state == Resolved {
		r.mu.Unlock()
		return true
	}
	r.attempted = true
	id := r.id
	r.mu.Unlock()

	if res == nil {
		return false
	}
	row, ok := res.db.Lookup(id)
	if !ok {
		return false
	}
	src := FromRow(row, res.languages)

	r.mu.Lock()
	if r.state == Resolved {
		r.mu.Unlock()
		return true
	}
	r.playerClass = src.playerClass
	r.rarity = src.rarity
	r.cardType = src.cardType
	r.name = src.name
	r.cost = src.cost
	r.localizedName = src.localizedName
	r.text = src.text
	r.englishText = src.englishText
	r.attack = src.attack
	r.health = src.health
	r.race = src.race
	r.durability = src.durability
	r.mechanics = src.mechanics
	r.artist = src.artist
	r.set = src.set
	r.collectible = src.collectible
	r.flavorText = src.flavorText
	r.alternativeNames = src.alternativeNames
	r.alternativeTexts = src.alternativeTexts
	r.state = Resolved
	if r.resolver == nil {
		r.resolver = res
	}
	r.mu.Unlock()

	r.publish(Change{ID: id, Field: FieldResolved, Value: true})
	return true
}

// ensureResolved performs the single implicit resolution attempt a shallow
// record makes when a resolved attribute is first read.
func (r *Record) ensureResolved() {
	r.mu.RLock()
	needed := r.state == Unresolved && !r.attempted && r.resolver != nil
	res := r.resolver
	r.mu.RUnlock()
	if needed {
		r.Load(res)
	}
}
