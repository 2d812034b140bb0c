// Package game holds the per-match state the overlay mirrors: the cards
// tracked for each side and the server region. Everything here is cleared
// when the game exits.
package game

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/codyseavey/deck-overlay/internal/card"
)

// Region is the game server region the client is connected to.
type Region int

const (
	RegionUnknown Region = iota
	RegionUS
	RegionEU
	RegionAsia
	RegionChina
)

func (r Region) String() string {
	switch r {
	case RegionUS:
		return "us"
	case RegionEU:
		return "eu"
	case RegionAsia:
		return "asia"
	case RegionChina:
		return "china"
	default:
		return "unknown"
	}
}

// ParseRegion maps a region name to a Region. Unrecognized names are RegionUnknown.
func ParseRegion(s string) Region {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "us", "na":
		return RegionUS
	case "eu":
		return RegionEU
	case "asia", "ap":
		return RegionAsia
	case "china", "cn":
		return RegionChina
	default:
		return RegionUnknown
	}
}

// Side is one of the two players in a match.
type Side int

const (
	Player Side = iota
	Opponent
)

func (s Side) String() string {
	if s == Opponent {
		return "opponent"
	}
	return "player"
}

// ParseSide accepts "player" or "opponent".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "player":
		return Player, nil
	case "opponent":
		return Opponent, nil
	default:
		return Player, fmt.Errorf("unknown side %q", s)
	}
}

// Zone is where a tracked card currently sits.
type Zone int

const (
	ZoneDeck Zone = iota
	ZoneHand
	ZoneBoard
	ZoneGraveyard
	zoneCount
)

func (z Zone) String() string {
	switch z {
	case ZoneHand:
		return "hand"
	case ZoneBoard:
		return "board"
	case ZoneGraveyard:
		return "graveyard"
	default:
		return "deck"
	}
}

// ParseZone maps a zone name to a Zone. Empty or unrecognized names are ZoneDeck.
func ParseZone(s string) Zone {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hand":
		return ZoneHand
	case "board", "play":
		return ZoneBoard
	case "graveyard", "dead", "removed":
		return ZoneGraveyard
	default:
		return ZoneDeck
	}
}

type sideState struct {
	order []string
	cards map[string]*card.Record
	// Copies per zone for each id. Hand copies live on the record instead.
	placed map[string]*[zoneCount]int
}

func newSideState() *sideState {
	return &sideState{
		cards:  make(map[string]*card.Record),
		placed: make(map[string]*[zoneCount]int),
	}
}

// copies returns how many copies of id sit in zone.
func (st *sideState) copies(id string, zone Zone) int {
	if zone == ZoneHand {
		return st.cards[id].InHandCount()
	}
	return st.placed[id][zone]
}

func (st *sideState) place(id string, zone Zone, delta int) {
	if zone == ZoneHand {
		st.cards[id].AddInHandCount(delta)
		return
	}
	st.placed[id][zone] += delta
}

func (st *sideState) total(zone Zone) int {
	n := 0
	for _, id := range st.order {
		n += st.copies(id, zone)
	}
	return n
}

// State is the per-match game state. It is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	resolver *card.Resolver
	sides    [2]*sideState
}

// NewState returns an empty state. Tracked ids are resolved through resolver,
// which may be nil to keep records shallow.
func NewState(resolver *card.Resolver) *State {
	return &State{
		resolver: resolver,
		sides:    [2]*sideState{newSideState(), newSideState()},
	}
}

func (s *State) newRecord(id string) *card.Record {
	if s.resolver == nil {
		return card.New(id)
	}
	return s.resolver.Resolve(id)
}

// Track records one more copy of id for side in zone and returns the stacked
// record. The first copy starts a new stack.
func (s *State) Track(side Side, id string, zone Zone, created bool) *card.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sides[side]
	rec, ok := st.cards[id]
	if ok {
		rec.AddCount(1)
	} else {
		rec = s.newRecord(id)
		st.cards[id] = rec
		st.placed[id] = &[zoneCount]int{}
		st.order = append(st.order, id)
	}
	if created {
		rec.SetCreated(true)
	}
	st.place(id, zone, 1)
	return rec
}

// Move shifts one copy of id from one zone to another. It reports false when
// the card is not tracked or has no copy in from.
func (s *State) Move(side Side, id string, from, to Zone) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sides[side]
	if _, ok := st.cards[id]; !ok || st.copies(id, from) == 0 {
		return false
	}
	if from != to {
		st.place(id, from, -1)
		st.place(id, to, 1)
	}
	return true
}

// Discard marks id as discarded from side's hand, moving one hand copy to the
// graveyard if there is one. It reports false when the card is not tracked.
func (s *State) Discard(side Side, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.sides[side]
	rec, ok := st.cards[id]
	if !ok {
		return false
	}
	if st.copies(id, ZoneHand) > 0 {
		st.place(id, ZoneHand, -1)
		st.place(id, ZoneGraveyard, 1)
	}
	rec.SetDiscarded(true)
	return true
}

// Card returns the tracked record for id on side.
func (s *State) Card(side Side, id string) (*card.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sides[side].cards[id]
	return rec, ok
}

// Cards returns side's tracked records in the order they were first seen.
func (s *State) Cards(side Side) []*card.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.sides[side]
	out := make([]*card.Record, 0, len(st.order))
	for _, id := range st.order {
		out = append(out, st.cards[id])
	}
	return out
}

// HandCount is the number of cards side currently holds.
func (s *State) HandCount(side Side) int {
	return s.ZoneCount(side, ZoneHand)
}

func (s *State) BoardCount(side Side) int {
	return s.ZoneCount(side, ZoneBoard)
}

func (s *State) DeckCount(side Side) int {
	return s.ZoneCount(side, ZoneDeck)
}

// ZoneCount is the number of side's tracked copies in zone.
func (s *State) ZoneCount(side Side, zone Zone) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sides[side].total(zone)
}

// Sorted returns side's records ordered by cost then display name.
func (s *State) Sorted(side Side) []*card.Record {
	cards := s.Cards(side)
	sort.SliceStable(cards, func(i, j int) bool {
		ci, cj := cards[i].Cost(), cards[j].Cost()
		if ci != cj {
			return ci < cj
		}
		return cards[i].LocalizedName() < cards[j].LocalizedName()
	})
	return cards
}

// Clear forgets every tracked card on both sides.
func (s *State) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sides = [2]*sideState{newSideState(), newSideState()}
	return nil
}
