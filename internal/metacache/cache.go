// Package metacache memoizes presentation artifacts built from card records,
// so nothing is rebuilt while the visible state of a card is unchanged.
package metacache

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/codyseavey/deck-overlay/internal/card"
	"github.com/codyseavey/deck-overlay/internal/config"
	"github.com/codyseavey/deck-overlay/internal/metrics"
)

// Snapshot is the part of a card instance that decides how it is rendered.
// Two snapshots are equal iff every field matches.
type Snapshot struct {
	Count         int
	Jousted       bool
	Created       bool
	Theme         string
	TextColorHash uint64
	ColoredFrame  bool
	ColoredGem    bool
}

// SnapshotOf captures the presentation-relevant state of r under display.
func SnapshotOf(r *card.Record, display config.Display) Snapshot {
	return Snapshot{
		Count:         r.Count(),
		Jousted:       r.Jousted(),
		Created:       r.IsCreated(),
		Theme:         display.Theme,
		TextColorHash: xxhash.Sum64String(display.TextColor),
		ColoredFrame:  display.RarityCardFrames,
		ColoredGem:    display.RarityCardGems,
	}
}

// Key identifies one visible instance: the same card id can be shown in
// several slots at once.
type Key struct {
	CardID string
	Slot   int
}

// Cache maps Key and Snapshot to a built artifact. It is unbounded; entries
// are scoped to a match and dropped by Clear when the game resets.
type Cache[A any] struct {
	mu      sync.Mutex
	entries map[Key]map[Snapshot]A
	size    int
}

func New[A any]() *Cache[A] {
	return &Cache[A]{entries: make(map[Key]map[Snapshot]A)}
}

// GetOrBuild returns the artifact cached for an equal snapshot under key,
// or calls build and stores its result. A build error is returned and nothing is stored.
func (c *Cache[A]) GetOrBuild(key Key, snap Snapshot, build func() (A, error)) (A, error) {
	c.mu.Lock()
	if bySnap, ok := c.entries[key]; ok {
		if artifact, ok := bySnap[snap]; ok {
			c.mu.Unlock()
			metrics.MetadataCacheHits.Inc()
			return artifact, nil
		}
	}
	c.mu.Unlock()

	metrics.MetadataCacheMisses.Inc()
	artifact, err := build()
	if err != nil {
		var zero A
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	bySnap, ok := c.entries[key]
	if !ok {
		bySnap = make(map[Snapshot]A)
		c.entries[key] = bySnap
	}
	if _, exists := bySnap[snap]; !exists {
		c.size++
	}
	bySnap[snap] = artifact
	metrics.MetadataCacheEntries.Set(float64(c.size))
	return artifact, nil
}

// Len returns the number of cached artifacts.
func (c *Cache[A]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Forget drops every artifact cached for cardID, in any slot.
func (c *Cache[A]) Forget(cardID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, bySnap := range c.entries {
		if key.CardID == cardID {
			c.size -= len(bySnap)
			delete(c.entries, key)
		}
	}
	metrics.MetadataCacheEntries.Set(float64(c.size))
}

// Clear drops everything. It satisfies the reset sequence's clearer contract.
func (c *Cache[A]) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[Key]map[Snapshot]A)
	c.size = 0
	metrics.MetadataCacheEntries.Set(0)
	return nil
}
