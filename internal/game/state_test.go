package game

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegion(t *testing.T) {
	tests := []struct {
		input    string
		expected Region
	}{
		{"us", RegionUS},
		{"EU", RegionEU},
		{" asia ", RegionAsia},
		{"cn", RegionChina},
		{"mars", RegionUnknown},
		{"", RegionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseRegion(tt.input))
		})
	}
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("Opponent")
	require.NoError(t, err)
	assert.Equal(t, Opponent, s)

	_, err = ParseSide("spectator")
	assert.Error(t, err)
}

func TestTrackStacksById(t *testing.T) {
	s := NewState(nil)

	first := s.Track(Player, "EX1_238", ZoneHand, false)
	second := s.Track(Player, "EX1_238", ZoneHand, false)
	s.Track(Player, "CS2_106", ZoneBoard, true)

	assert.Same(t, first, second)
	assert.Equal(t, 2, first.Count())
	assert.Equal(t, 2, s.HandCount(Player))
	assert.Equal(t, 1, s.BoardCount(Player))
	assert.Len(t, s.Cards(Player), 2)
	assert.Empty(t, s.Cards(Opponent))

	axe, ok := s.Card(Player, "CS2_106")
	require.True(t, ok)
	assert.True(t, axe.IsCreated())
}

func TestDiscard(t *testing.T) {
	s := NewState(nil)
	s.Track(Opponent, "EX1_238", ZoneHand, false)

	require.True(t, s.Discard(Opponent, "EX1_238"))
	rec, _ := s.Card(Opponent, "EX1_238")
	assert.True(t, rec.WasDiscarded())
	assert.Equal(t, 0, s.HandCount(Opponent))
	assert.Equal(t, 1, s.ZoneCount(Opponent, ZoneGraveyard))

	// A discard with nothing in hand still marks the card but moves nothing.
	require.True(t, s.Discard(Opponent, "EX1_238"))
	assert.Equal(t, 0, rec.InHandCount())
	assert.Equal(t, 1, s.ZoneCount(Opponent, ZoneGraveyard))

	assert.False(t, s.Discard(Opponent, "MISSING"))
}

func TestParseZone(t *testing.T) {
	tests := []struct {
		input    string
		expected Zone
	}{
		{"hand", ZoneHand},
		{"Board", ZoneBoard},
		{"play", ZoneBoard},
		{"dead", ZoneGraveyard},
		{" graveyard ", ZoneGraveyard},
		{"deck", ZoneDeck},
		{"", ZoneDeck},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseZone(tt.input))
		})
	}
}

func TestMoveBetweenZones(t *testing.T) {
	s := NewState(nil)
	s.Track(Player, "CS2_106", ZoneDeck, false)
	s.Track(Player, "CS2_106", ZoneDeck, false)
	assert.Equal(t, 2, s.DeckCount(Player))

	require.True(t, s.Move(Player, "CS2_106", ZoneDeck, ZoneHand))
	require.True(t, s.Move(Player, "CS2_106", ZoneHand, ZoneBoard))
	assert.Equal(t, 1, s.DeckCount(Player))
	assert.Equal(t, 0, s.HandCount(Player))
	assert.Equal(t, 1, s.BoardCount(Player))

	// The minion dies.
	require.True(t, s.Move(Player, "CS2_106", ZoneBoard, ZoneGraveyard))
	assert.Equal(t, 0, s.BoardCount(Player))
	assert.Equal(t, 1, s.ZoneCount(Player, ZoneGraveyard))

	assert.False(t, s.Move(Player, "CS2_106", ZoneBoard, ZoneGraveyard), "no copy left on board")
	assert.False(t, s.Move(Player, "MISSING", ZoneDeck, ZoneHand))
	assert.Equal(t, 0, s.BoardCount(Player))
}

func TestConcurrentTrackKeepsEveryCopy(t *testing.T) {
	s := NewState(nil)
	const workers = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Track(Player, "EX1_238", ZoneHand, false)
		}()
	}
	wg.Wait()

	rec, ok := s.Card(Player, "EX1_238")
	require.True(t, ok)
	assert.Equal(t, workers, rec.Count())
	assert.Equal(t, workers, rec.InHandCount())

	for i := 0; i < workers/2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Discard(Player, "EX1_238")
		}()
	}
	wg.Wait()

	assert.Equal(t, workers/2, s.HandCount(Player))
	assert.Equal(t, workers/2, s.ZoneCount(Player, ZoneGraveyard))
}

func TestClear(t *testing.T) {
	s := NewState(nil)
	s.Track(Player, "EX1_238", ZoneBoard, false)
	s.Track(Opponent, "CS2_106", ZoneHand, false)

	require.NoError(t, s.Clear(context.Background()))

	assert.Empty(t, s.Cards(Player))
	assert.Empty(t, s.Cards(Opponent))
	assert.Equal(t, 0, s.BoardCount(Player))
}
