package orchestrator

import (
	"github.com/go-slippy/slippy/internal/tilecache"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
	"github.com/go-slippy/slippy/internal/viewport"
)

// LoadedAncestorLevels is get_loaded_ancestors' default max_levels.
const LoadedAncestorLevels = 8

// ComputeKeepSet computes the set of coords this frame must retain:
// visible-with-buffer ∪ their parents (proactive fallback) ∪, for every
// not-yet-loaded base tile, its loaded ancestors (up to 8 levels) and
// any loaded children.
func ComputeKeepSet(v viewport.Viewport, cache *tilecache.Cache, buffer int) map[tilecoord.Coord]struct{} {
	base := v.VisibleTilesWithBuffer(buffer)
	keep := make(map[tilecoord.Coord]struct{}, len(base)*2)

	for _, c := range base {
		keep[c] = struct{}{}
		if p, ok := c.Parent(); ok {
			keep[p] = struct{}{}
		}

		s, loaded := cache.Get(c)
		if loaded && s.Tag == tilestate.Loaded {
			continue
		}

		for _, anc := range cache.GetLoadedAncestors(c, LoadedAncestorLevels) {
			keep[anc] = struct{}{}
		}
		if children, ok := c.Children(); ok {
			for _, ch := range children {
				if cs, ok := cache.Get(ch); ok && cs.Tag == tilestate.Loaded {
					keep[ch] = struct{}{}
				}
			}
		}
	}

	return keep
}
