// Package card models a single card instance and its lazily resolved metadata.
package card

import (
	"fmt"
	"sync"

	"github.com/codyseavey/deck-overlay/internal/models"
)

// ResolutionState tells whether a record's metadata has been populated.
type ResolutionState int

const (
	Unresolved ResolutionState = iota
	Resolved
)

func (s ResolutionState) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// Record is one card instance. Metadata fields are resolved from the card
// database; counters are per instance and publish a Change when mutated.
// All methods are safe for concurrent use.
type Record struct {
	mu sync.RWMutex

	id        string
	state     ResolutionState
	attempted bool
	resolver  *Resolver

	playerClass   string
	rarity        models.Rarity
	cardType      string
	name          string
	cost          int
	localizedName string
	text          string
	englishText   string
	attack        int
	health        int
	race          string
	durability    *int
	mechanics     []string
	artist        string
	set           string
	collectible   bool
	flavorText    string

	// Parallel slices: entry i of each belongs to the same alternative language.
	alternativeNames []string
	alternativeTexts []string

	overload *int

	count       int
	inHandCount int
	created     bool
	discarded   bool
	jousted     bool

	subs    map[int]chan Change
	nextSub int
}

type Option func(*Record)

// WithResolver lets a shallow record resolve itself on first use.
func WithResolver(res *Resolver) Option {
	return func(r *Record) { r.resolver = res }
}

// WithCount sets the initial stack size.
func WithCount(n int) Option {
	return func(r *Record) { r.count = n }
}

// New returns a shallow record carrying only its id.
func New(id string, opts ...Option) *Record {
	r := &Record{id: id, count: 1}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Record) ID() string {
	return r.id
}

func (r *Record) State() ResolutionState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Record) IsResolved() bool {
	return r.State() == Resolved
}

// read runs fn under the read lock after giving a shallow record its chance to resolve.
func (r *Record) read(fn func()) {
	r.ensureResolved()
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn()
}

func (r *Record) PlayerClass() (v string) {
	r.read(func() { v = r.playerClass })
	return
}

func (r *Record) Rarity() (v models.Rarity) {
	r.read(func() { v = r.rarity })
	return
}

func (r *Record) Type() (v string) {
	r.read(func() { v = r.cardType })
	return
}

// Name is the English base name.
func (r *Record) Name() (v string) {
	r.read(func() { v = r.name })
	return
}

func (r *Record) Cost() (v int) {
	r.read(func() { v = r.cost })
	return
}

func (r *Record) Attack() (v int) {
	r.read(func() { v = r.attack })
	return
}

func (r *Record) Health() (v int) {
	r.read(func() { v = r.health })
	return
}

func (r *Record) Race() (v string) {
	r.read(func() { v = r.race })
	return
}

func (r *Record) Artist() (v string) {
	r.read(func() { v = r.artist })
	return
}

func (r *Record) Set() (v string) {
	r.read(func() { v = r.set })
	return
}

func (r *Record) Collectible() (v bool) {
	r.read(func() { v = r.collectible })
	return
}

// RawText is the primary-language rules text exactly as stored.
func (r *Record) RawText() (v string) {
	r.read(func() { v = r.text })
	return
}

func (r *Record) Mechanics() (v []string) {
	r.read(func() { v = append([]string(nil), r.mechanics...) })
	return
}

// Durability reports the weapon durability and whether the card has one.
func (r *Record) Durability() (v int, ok bool) {
	r.read(func() {
		if r.durability != nil {
			v, ok = *r.durability, true
		}
	})
	return
}

// LocalizedName is the display name, falling back to the English name.
func (r *Record) LocalizedName() (v string) {
	r.read(func() {
		v = r.localizedName
		if v == "" {
			v = r.name
		}
	})
	return
}

// Text is the normalized primary-language text with markup removed.
func (r *Record) Text() string {
	return CleanText(r.RawText(), true)
}

// FormattedText keeps bold/italic markup for renderers.
func (r *Record) FormattedText() string {
	return CleanText(r.RawText(), false)
}

// EnglishText is the normalized English text, falling back to Text.
func (r *Record) EnglishText() string {
	var english string
	r.read(func() { english = r.englishText })
	if english == "" {
		return r.Text()
	}
	return CleanText(english, true)
}

func (r *Record) FlavorText() (v string) {
	r.read(func() { v = CleanText(r.flavorText, true) })
	return
}

func (r *Record) FormattedFlavorText() (v string) {
	r.read(func() { v = CleanText(r.flavorText, false) })
	return
}

// AlternativeNames returns a copy of the alternative-language names.
func (r *Record) AlternativeNames() (v []string) {
	r.read(func() { v = append([]string(nil), r.alternativeNames...) })
	return
}

// AlternativeTexts returns a copy of the alternative-language raw texts,
// index-aligned with AlternativeNames.
func (r *Record) AlternativeTexts() (v []string) {
	r.read(func() { v = append([]string(nil), r.alternativeTexts...) })
	return
}

func (r *Record) AlternativeLanguageText() (v string) {
	r.read(func() { v = alternativeText(r.alternativeNames, r.alternativeTexts, false) })
	return
}

func (r *Record) FormattedAlternativeLanguageText() (v string) {
	r.read(func() { v = alternativeText(r.alternativeNames, r.alternativeTexts, true) })
	return
}

// Overload returns the overload amount from the English text, or -1.
// The value is memoized once the text is available.
func (r *Record) Overload() int {
	r.mu.RLock()
	memo := r.overload
	r.mu.RUnlock()
	if memo != nil {
		return *memo
	}

	english := r.EnglishText()
	if english == "" {
		return -1
	}
	v := ParseOverload(english)

	r.mu.Lock()
	if r.overload == nil {
		r.overload = &v
	}
	r.mu.Unlock()
	return v
}

func (r *Record) DustCost() int {
	return r.Rarity().DustCost()
}

// RaceOrType returns the race, or the card type for cards without one.
func (r *Record) RaceOrType() (v string) {
	r.read(func() {
		v = r.race
		if v == "" {
			v = r.cardType
		}
	})
	return
}

// DurabilityOrHealth returns durability for weapons and health otherwise.
func (r *Record) DurabilityOrHealth() (v int) {
	r.read(func() {
		if r.durability != nil {
			v = *r.durability
			return
		}
		v = r.health
	})
	return
}

// PlayerClassOrNeutral returns the class, defaulting to "Neutral".
func (r *Record) PlayerClassOrNeutral() string {
	if c := r.PlayerClass(); c != "" {
		return c
	}
	return "Neutral"
}

func (r *Record) IsClassCard() bool {
	return r.PlayerClassOrNeutral() != "Neutral"
}

// FileName is the slug used for per-card asset files.
func (r *Record) FileName() string {
	return fileName(r.Name())
}

func (r *Record) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

func (r *Record) InHandCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.inHandCount
}

func (r *Record) IsCreated() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.created
}

func (r *Record) WasDiscarded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.discarded
}

func (r *Record) Jousted() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.jousted
}

func (r *Record) SetCount(n int) {
	r.mu.Lock()
	r.count = n
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldCount, Value: n})
}

// AddCount adjusts the stack size by delta and returns the new value.
func (r *Record) AddCount(delta int) int {
	r.mu.Lock()
	r.count += delta
	n := r.count
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldCount, Value: n})
	return n
}

func (r *Record) SetInHandCount(n int) {
	r.mu.Lock()
	r.inHandCount = n
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldInHandCount, Value: n})
}

// AddInHandCount adjusts the in-hand count by delta, never going below zero,
// and returns the new value.
func (r *Record) AddInHandCount(delta int) int {
	r.mu.Lock()
	r.inHandCount += delta
	if r.inHandCount < 0 {
		r.inHandCount = 0
	}
	n := r.inHandCount
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldInHandCount, Value: n})
	return n
}

func (r *Record) SetCreated(v bool) {
	r.mu.Lock()
	r.created = v
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldCreated, Value: v})
}

func (r *Record) SetDiscarded(v bool) {
	r.mu.Lock()
	r.discarded = v
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldDiscarded, Value: v})
}

func (r *Record) SetJousted(v bool) {
	r.mu.Lock()
	r.jousted = v
	r.mu.Unlock()
	r.publish(Change{ID: r.id, Field: FieldJousted, Value: v})
}

// NameEquals groups records by display name, regardless of id or count.
func (r *Record) NameEquals(other *Record) bool {
	if other == nil {
		return false
	}
	return r.LocalizedName() == other.LocalizedName()
}

// EqualsWithCount compares instance identity: same card id and same stack size.
func (r *Record) EqualsWithCount(other *Record) bool {
	if other == nil {
		return false
	}
	return r.id == other.id && r.Count() == other.Count()
}

// Clone returns an independent copy with the same metadata and counters.
// Subscribers are not carried over.
func (r *Record) Clone() *Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c := &Record{
		id:               r.id,
		state:            r.state,
		attempted:        r.attempted,
		resolver:         r.resolver,
		playerClass:      r.playerClass,
		rarity:           r.rarity,
		cardType:         r.cardType,
		name:             r.name,
		cost:             r.cost,
		localizedName:    r.localizedName,
		text:             r.text,
		englishText:      r.englishText,
		attack:           r.attack,
		health:           r.health,
		race:             r.race,
		mechanics:        append([]string(nil), r.mechanics...),
		artist:           r.artist,
		set:              r.set,
		collectible:      r.collectible,
		flavorText:       r.flavorText,
		alternativeNames: append([]string(nil), r.alternativeNames...),
		alternativeTexts: append([]string(nil), r.alternativeTexts...),
		count:            r.count,
		inHandCount:      r.inHandCount,
		created:          r.created,
		discarded:        r.discarded,
		jousted:          r.jousted,
	}
	if r.durability != nil {
		d := *r.durability
		c.durability = &d
	}
	if r.overload != nil {
		o := *r.overload
		c.overload = &o
	}
	return c
}

func (r *Record) String() string {
	return fmt.Sprintf("%s(%d)", r.Name(), r.Count())
}
