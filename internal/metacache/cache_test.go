package metacache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/config"
)

func display() config.Display {
	return config.Display{Theme: "classic", TextColor: "#FFFFFF", RarityCardFrames: true}
}

func TestSnapshotEquality(t *testing.T) {
	r := card.New("EX1_238")
	a := SnapshotOf(r, display())
	b := SnapshotOf(r, display())
	assert.Equal(t, a, b)

	r.SetCount(2)
	assert.NotEqual(t, a, SnapshotOf(r, display()))

	d := display()
	d.TextColor = "#000000"
	assert.NotEqual(t, a.TextColorHash, SnapshotOf(card.New("EX1_238"), d).TextColorHash)
}

func TestGetOrBuildReusesEqualSnapshot(t *testing.T) {
	c := New[string]()
	key := Key{CardID: "EX1_238", Slot: 0}
	r := card.New("EX1_238")
	builds := 0
	build := func() (string, error) {
		builds++
		return "tile", nil
	}

	first, err := c.GetOrBuild(key, SnapshotOf(r, display()), build)
	require.NoError(t, err)
	second, err := c.GetOrBuild(key, SnapshotOf(r, display()), build)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrBuildRebuildsOnChange(t *testing.T) {
	c := New[int]()
	key := Key{CardID: "EX1_238"}
	r := card.New("EX1_238")
	builds := 0
	build := func() (int, error) {
		builds++
		return builds, nil
	}

	_, _ = c.GetOrBuild(key, SnapshotOf(r, display()), build)
	r.SetJousted(true)
	v, err := c.GetOrBuild(key, SnapshotOf(r, display()), build)
	require.NoError(t, err)

	assert.Equal(t, 2, v)
	assert.Equal(t, 2, c.Len())

	// Going back to the original state is served from cache.
	r.SetJousted(false)
	v, _ = c.GetOrBuild(key, SnapshotOf(r, display()), build)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, builds)
}

func TestSlotsAreIndependent(t *testing.T) {
	c := New[string]()
	r := card.New("EX1_238")
	snap := SnapshotOf(r, display())

	_, _ = c.GetOrBuild(Key{CardID: "EX1_238", Slot: 0}, snap, func() (string, error) { return "a", nil })
	v, _ := c.GetOrBuild(Key{CardID: "EX1_238", Slot: 1}, snap, func() (string, error) { return "b", nil })
	assert.Equal(t, "b", v)
	assert.Equal(t, 2, c.Len())

	c.Forget("EX1_238")
	assert.Equal(t, 0, c.Len())
}

func TestBuildErrorIsNotCached(t *testing.T) {
	c := New[string]()
	key := Key{CardID: "X"}
	snap := SnapshotOf(card.New("X"), display())

	_, err := c.GetOrBuild(key, snap, func() (string, error) { return "", errors.New("boom") })
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.GetOrBuild(key, snap, func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestClear(t *testing.T) {
	c := New[string]()
	snap := SnapshotOf(card.New("X"), display())
	_, _ = c.GetOrBuild(Key{CardID: "X"}, snap, func() (string, error) { return "x", nil })

	require.NoError(t, c.Clear(context.Background()))
	assert.Equal(t, 0, c.Len())
}
