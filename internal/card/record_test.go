package card

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/deck-overlay/internal/locale"
	"github.com/codyseavey/deck-overlay/internal/models"
)

type fakeDB struct {
	mu      sync.Mutex
	rows    map[string]*models.CardRow
	lookups int
}

func (f *fakeDB) Lookup(id string) (*models.CardRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	row, ok := f.rows[id]
	return row, ok
}

func lightningBolt() *models.CardRow {
	return &models.CardRow{
		ID:          "EX1_238",
		PlayerClass: "Shaman",
		Rarity:      models.RarityCommon,
		Type:        "Spell",
		Cost:        1,
		Set:         "EXPERT1",
		Artist:      "Daarken",
		Collectible: true,
		Mechanics:   []string{"OVERLOAD"},
		Localizations: []models.CardLocalization{
			{Locale: locale.EnUS, Name: "Lightning Bolt", Text: "Deal $3 damage. <b>Overload:</b> (1)", FlavorText: "<i>Zap!</i>"},
			{Locale: locale.DeDE, Name: "Blitzschlag", Text: "Verursacht $3 Schaden."},
			{Locale: locale.FrFR, Name: "Éclair"},
		},
	}
}

func fieryWarAxe() *models.CardRow {
	return &models.CardRow{
		ID:         "CS2_106",
		Rarity:     models.RarityFree,
		Type:       "Weapon",
		Attack:     3,
		Durability: 2,
		Localizations: []models.CardLocalization{
			{Locale: locale.EnUS, Name: "Fiery War Axe"},
		},
	}
}

func newFakeDB(rows ...*models.CardRow) *fakeDB {
	db := &fakeDB{rows: make(map[string]*models.CardRow)}
	for _, r := range rows {
		db.rows[r.ID] = r
	}
	return db
}

func TestShallowRecordNeutralDefaults(t *testing.T) {
	r := New("UNKNOWN_001")

	assert.Equal(t, Unresolved, r.State())
	assert.Equal(t, -1, r.Overload())
	assert.Equal(t, 0, r.DustCost())
	assert.Equal(t, "", r.RaceOrType())
	assert.Equal(t, 0, r.DurabilityOrHealth())
	assert.Equal(t, "", r.Text())
	assert.Equal(t, "", r.AlternativeLanguageText())
	assert.Equal(t, "Neutral", r.PlayerClassOrNeutral())
	assert.Equal(t, 1, r.Count())
}

func TestLoadIsIdempotent(t *testing.T) {
	db := newFakeDB(lightningBolt())
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)
	r := New("EX1_238")

	require.True(t, r.Load(res))
	first := r.Clone()
	require.True(t, r.Load(res))

	assert.Equal(t, 1, db.lookups)
	assert.Equal(t, Resolved, r.State())
	assert.Equal(t, first.Name(), r.Name())
	assert.Equal(t, "Lightning Bolt", r.Name())
	assert.Equal(t, 1, r.Overload())
}

func TestLoadUnknownStaysShallow(t *testing.T) {
	db := newFakeDB()
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)
	r := New("NOPE")

	assert.False(t, r.Load(res))
	assert.Equal(t, Unresolved, r.State())
	assert.Equal(t, 0, r.DustCost())
	assert.Equal(t, -1, r.Overload())
}

func TestLazyResolutionOnFirstAccess(t *testing.T) {
	db := newFakeDB(lightningBolt())
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)
	r := New("EX1_238", WithResolver(res))

	assert.Equal(t, 0, db.lookups)
	assert.Equal(t, 40, r.DustCost())
	assert.Equal(t, "Spell", r.RaceOrType())
	assert.Equal(t, 1, db.lookups)
}

func TestLazyResolutionUnknownQueriesOnce(t *testing.T) {
	db := newFakeDB()
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)
	r := New("NOPE", WithResolver(res))

	_ = r.Name()
	_ = r.Text()
	_ = r.DustCost()
	assert.Equal(t, 1, db.lookups)
	assert.Equal(t, Unresolved, r.State())
}

func TestFromRowLocalization(t *testing.T) {
	langs := Languages{Primary: locale.DeDE, Alternatives: []string{"frFR", "bogus tag", "jaJP"}}
	r := FromRow(lightningBolt(), langs)

	assert.Equal(t, "Lightning Bolt", r.Name())
	assert.Equal(t, "Blitzschlag", r.LocalizedName())
	assert.Equal(t, "Verursacht 3 Schaden.", r.Text())
	assert.Equal(t, "Deal 3 damage. Overload: (1)", r.EnglishText())
	assert.Equal(t, "Zap!", r.FlavorText())
	assert.Equal(t, "<i>Zap!</i>", r.FormattedFlavorText())

	names := r.AlternativeNames()
	texts := r.AlternativeTexts()
	require.Len(t, names, 2, "malformed tag is skipped, missing jaJP strings are kept as empty")
	assert.Equal(t, len(names), len(texts))
	assert.Equal(t, []string{"Éclair", ""}, names)
	assert.Equal(t, "[Éclair]\n-\n[]", r.AlternativeLanguageText())
}

func TestLocalizedNameFallsBackToName(t *testing.T) {
	r := FromRow(fieryWarAxe(), Languages{Primary: locale.KoKR})
	assert.Equal(t, "Fiery War Axe", r.LocalizedName())
}

func TestDerivedFallbacks(t *testing.T) {
	axe := FromRow(fieryWarAxe(), Languages{Primary: locale.EnUS})
	d, ok := axe.Durability()
	assert.True(t, ok)
	assert.Equal(t, 2, d)
	assert.Equal(t, 2, axe.DurabilityOrHealth())
	assert.Equal(t, "Weapon", axe.RaceOrType())
	assert.Equal(t, -1, axe.Overload())
	assert.Equal(t, 0, axe.DustCost())

	row := fieryWarAxe()
	row.Durability = 0
	row.Health = 5
	row.Race = "Beast"
	minion := FromRow(row, Languages{Primary: locale.EnUS})
	assert.Equal(t, 5, minion.DurabilityOrHealth())
	assert.Equal(t, "Beast", minion.RaceOrType())
}

func TestDustCostByRarity(t *testing.T) {
	tests := []struct {
		rarity   models.Rarity
		expected int
	}{
		{models.RarityCommon, 40},
		{models.RarityRare, 100},
		{models.RarityEpic, 400},
		{models.RarityLegendary, 1600},
		{models.RarityFree, 0},
		{models.Rarity("unknown"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.rarity), func(t *testing.T) {
			row := lightningBolt()
			row.Rarity = tt.rarity
			assert.Equal(t, tt.expected, FromRow(row, Languages{}).DustCost())
		})
	}
}

func TestOverloadMemoized(t *testing.T) {
	r := FromRow(lightningBolt(), Languages{Primary: locale.EnUS})
	assert.Equal(t, 1, r.Overload())

	r.mu.Lock()
	r.englishText = "Overload: (7)"
	r.mu.Unlock()
	assert.Equal(t, 1, r.Overload())
}

func TestEqualityRelationsDiffer(t *testing.T) {
	a := FromRow(lightningBolt(), Languages{Primary: locale.EnUS})
	row := lightningBolt()
	row.ID = "CORE_EX1_238"
	b := FromRow(row, Languages{Primary: locale.EnUS})
	b.SetCount(2)

	assert.True(t, a.NameEquals(b))
	assert.False(t, a.EqualsWithCount(b))

	c := a.Clone()
	assert.True(t, a.EqualsWithCount(c))
	c.SetCount(2)
	assert.False(t, a.EqualsWithCount(c))
	assert.True(t, a.NameEquals(c))
}

func TestCloneDoesNotShareAlternatives(t *testing.T) {
	a := FromRow(lightningBolt(), Languages{Primary: locale.EnUS, Alternatives: []string{"deDE"}})
	a.SetCreated(true)
	b := a.Clone()

	b.mu.Lock()
	b.alternativeNames[0] = "changed"
	b.mu.Unlock()

	assert.Equal(t, []string{"Blitzschlag"}, a.AlternativeNames())
	assert.True(t, b.IsCreated())
	assert.Equal(t, a.Count(), b.Count())
}

func TestCounterMutationPublishesChange(t *testing.T) {
	r := New("EX1_238")
	ch, cancel := r.Subscribe()
	defer cancel()

	r.SetCount(3)
	r.SetInHandCount(1)
	r.SetCreated(true)
	r.SetDiscarded(true)

	expected := []Field{FieldCount, FieldInHandCount, FieldCreated, FieldDiscarded}
	for _, f := range expected {
		select {
		case c := <-ch:
			assert.Equal(t, f, c.Field)
			assert.Equal(t, "EX1_238", c.ID)
		default:
			t.Fatalf("expected change for %s", f)
		}
	}
}

func TestAddInHandCountClampsAtZero(t *testing.T) {
	r := New("EX1_238")
	events, cancel := r.Subscribe()
	defer cancel()

	assert.Equal(t, 2, r.AddInHandCount(2))
	assert.Equal(t, 1, r.AddInHandCount(-1))
	assert.Equal(t, 0, r.AddInHandCount(-5))
	assert.Equal(t, 0, r.InHandCount())

	for _, want := range []int{2, 1, 0} {
		ev := <-events
		assert.Equal(t, FieldInHandCount, ev.Field)
		assert.Equal(t, want, ev.Value)
	}
}

func TestLoadPublishesResolved(t *testing.T) {
	db := newFakeDB(lightningBolt())
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)
	r := New("EX1_238")
	ch, cancel := r.Subscribe()
	defer cancel()

	r.Load(res)

	select {
	case c := <-ch:
		assert.Equal(t, FieldResolved, c.Field)
	default:
		t.Fatal("expected resolved change")
	}
}

func TestResolverResolve(t *testing.T) {
	db := newFakeDB(lightningBolt())
	res := NewResolver(db, Languages{Primary: locale.EnUS}, nil)

	known := res.Resolve("EX1_238")
	assert.True(t, known.IsResolved())

	unknown := res.Resolve("NOPE")
	assert.False(t, unknown.IsResolved())
	_ = unknown.Name()
	assert.Equal(t, 2, db.lookups)
}

func TestString(t *testing.T) {
	r := FromRow(lightningBolt(), Languages{Primary: locale.EnUS})
	r.SetCount(2)
	assert.Equal(t, "Lightning Bolt(2)", r.String())
}
