// Package tilecache implements the tile-coord -> tile-state map, its
// LRU eviction of RAM-resident bytes, stale-tile detection and
// loaded-ancestor lookup.
//
// TileCache is main-thread-only by design: the update orchestrator and
// the renderer run on the main thread and mutate it without locks.
// Fetch/decode tasks never touch it directly; they communicate
// exclusively through the result queue in internal/fetch.
package tilecache

import (
	"sort"

	"github.com/go-slippy/slippy/internal/retry"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
)

// UnloadConfig holds the knobs governing cache sizing.
type UnloadConfig struct {
	BufferTiles     int
	MaxCachedImages int
}

// DefaultUnloadConfig returns buffer_tiles=3, max_cached_images=1500.
func DefaultUnloadConfig() UnloadConfig {
	return UnloadConfig{BufferTiles: 3, MaxCachedImages: 1500}
}

// Cache is the tile-coord -> tile-state map plus its configuration.
type Cache struct {
	tiles        map[tilecoord.Coord]tilestate.State
	RetryConfig  retry.Config
	UnloadConfig UnloadConfig
}

// New constructs an empty Cache with the given configuration.
func New(retryCfg retry.Config, unloadCfg UnloadConfig) *Cache {
	return &Cache{
		tiles:        make(map[tilecoord.Coord]tilestate.State),
		RetryConfig:  retryCfg,
		UnloadConfig: unloadCfg,
	}
}

// Get returns the state for coord, if present.
func (c *Cache) Get(coord tilecoord.Coord) (tilestate.State, bool) {
	s, ok := c.tiles[coord]
	return s, ok
}

// Insert sets (or replaces) the state for coord.
func (c *Cache) Insert(coord tilecoord.Coord, s tilestate.State) {
	c.tiles[coord] = s
}

// Contains reports whether coord has any entry.
func (c *Cache) Contains(coord tilecoord.Coord) bool {
	_, ok := c.tiles[coord]
	return ok
}

// Remove erases coord's entry, if any.
func (c *Cache) Remove(coord tilecoord.Coord) {
	delete(c.tiles, coord)
}

// Len returns the number of tracked coords.
func (c *Cache) Len() int {
	return len(c.tiles)
}

// UnloadEntry pairs a coord about to lose its GPU texture with the
// texture/bytes the caller must handle (destroy the texture, keep the
// bytes for the Cached re-insert).
type UnloadEntry struct {
	Coord   tilecoord.Coord
	Texture tilestate.Texture
	Bytes   []byte
}

// TilesToUnload returns every Loaded coord not in keepSet. The caller
// is expected to call Texture.Release() and then Insert the coord back
// as Cached.
func (c *Cache) TilesToUnload(keepSet map[tilecoord.Coord]struct{}) []UnloadEntry {
	var out []UnloadEntry
	for coord, s := range c.tiles {
		if s.Tag != tilestate.Loaded {
			continue
		}
		if _, keep := keepSet[coord]; keep {
			continue
		}
		out = append(out, UnloadEntry{Coord: coord, Texture: s.Texture, Bytes: s.Bytes})
	}
	return out
}

// StaleTiles returns every coord in Pending|Failed|Retrying|Exhausted
// not in keepSet; these carry no GPU/RAM resource so the caller can
// erase them outright.
func (c *Cache) StaleTiles(keepSet map[tilecoord.Coord]struct{}) []tilecoord.Coord {
	var out []tilecoord.Coord
	for coord, s := range c.tiles {
		switch s.Tag {
		case tilestate.Pending, tilestate.Failed, tilestate.Retrying, tilestate.Exhausted:
		default:
			continue
		}
		if _, keep := keepSet[coord]; keep {
			continue
		}
		out = append(out, coord)
	}
	return out
}

// ReloadEntry pairs a Cached coord re-entering view with its retained
// bytes, for off-main-thread re-decode.
type ReloadEntry struct {
	Coord tilecoord.Coord
	Bytes []byte
}

// CachedTilesToReload returns every Cached coord in visibleSet, for
// spawning a re-decode task.
func (c *Cache) CachedTilesToReload(visibleSet map[tilecoord.Coord]struct{}) []ReloadEntry {
	var out []ReloadEntry
	for coord := range visibleSet {
		s, ok := c.tiles[coord]
		if !ok || s.Tag != tilestate.Cached {
			continue
		}
		out = append(out, ReloadEntry{Coord: coord, Bytes: s.Bytes})
	}
	return out
}

// CachedImagesToEvict returns, for every Cached coord not in keepSet,
// the oldest-first (by LastAccess) prefix sufficient to reduce the
// Cached-outside-keep-set count down to maxToKeep. Ties in LastAccess
// break by tilecoord.Less for a deterministic (if arbitrary) order.
func (c *Cache) CachedImagesToEvict(keepSet map[tilecoord.Coord]struct{}, maxToKeep int) []tilecoord.Coord {
	type entry struct {
		coord tilecoord.Coord
		last  uint64
	}
	var candidates []entry
	for coord, s := range c.tiles {
		if s.Tag != tilestate.Cached {
			continue
		}
		if _, keep := keepSet[coord]; keep {
			continue
		}
		candidates = append(candidates, entry{coord: coord, last: s.LastAccess})
	}
	if len(candidates) <= maxToKeep {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].last != candidates[j].last {
			return candidates[i].last < candidates[j].last
		}
		return tilecoord.Less(candidates[i].coord, candidates[j].coord)
	})
	evictN := len(candidates) - maxToKeep
	out := make([]tilecoord.Coord, evictN)
	for i := 0; i < evictN; i++ {
		out[i] = candidates[i].coord
	}
	return out
}

// GetLoadedAncestors walks up to maxLevels parents from coord,
// returning every ancestor whose current state is Loaded, nearest
// first.
func (c *Cache) GetLoadedAncestors(coord tilecoord.Coord, maxLevels int) []tilecoord.Coord {
	var out []tilecoord.Coord
	cur := coord
	for i := 0; i < maxLevels; i++ {
		p, ok := cur.Parent()
		if !ok {
			break
		}
		if s, ok := c.tiles[p]; ok && s.Tag == tilestate.Loaded {
			out = append(out, p)
		}
		cur = p
	}
	return out
}
