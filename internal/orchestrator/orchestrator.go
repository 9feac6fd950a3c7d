// Package orchestrator implements the update orchestrator: the strict
// per-frame sequence of cancel/unload/evict/reload/drain/retry/spawn
// phases that keeps MapState consistent with the viewport, velocity
// and zoom-animation state the input mapper produces.
package orchestrator

import (
	"log/slog"
	"sort"

	"github.com/go-slippy/slippy/internal/mapstate"
	"github.com/go-slippy/slippy/internal/retry"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
	"github.com/go-slippy/slippy/internal/viewport"
	"github.com/go-slippy/slippy/internal/zoomanim"
)

// Update runs one frame of the orchestrator's 11-step sequence against s.
func Update(s *mapstate.State, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	wasAnimating := s.ZoomAnim.IsAnimating
	zoomResult := zoomanim.Step(s.Config.ZoomAnim, &s.ZoomAnim, s.Viewport.ScreenW, s.Viewport.ScreenH, s.Viewport.TileSize)
	if wasAnimating {
		s.Viewport.CenterLat, s.Viewport.CenterLon = zoomResult.CenterLat, zoomResult.CenterLon
	}
	s.Viewport.Zoom = zoomResult.IntegerZoom

	if !s.Drag.Active {
		s.Mapper.DecayVelocity(&s.Velocity)
	}

	keepSet := ComputeKeepSet(s.Viewport, s.Cache, s.Config.Cache.BufferTiles)

	cancelStaleTasks(s, keepSet)
	unloadDistant(s, keepSet)
	removeStale(s, keepSet)
	evictLRU(s, keepSet)
	reloadCached(s)
	drainResults(s, logger)
	scheduleRetries(s)

	shouldFetchNew := !s.ZoomAnim.IsAnimating || (s.Tau-s.LastZoomChangeFrame) >= s.Config.ZoomDebounceFrames
	if shouldFetchNew {
		spawnNewFetches(s)
	}

	s.Tau++
}

// cancelStaleTasks is step 2: every active task whose coord fell out
// of the keep set gets its cancel flag flipped and its registry entry
// dropped.
func cancelStaleTasks(s *mapstate.State, keepSet map[tilecoord.Coord]struct{}) {
	for coord := range s.ActiveTasks {
		if _, keep := keepSet[coord]; !keep {
			s.CancelTask(coord)
		}
	}
}

// unloadDistant is step 3: Loaded tiles that fell out of the keep set
// lose their GPU texture and become Cached(bytes, τ).
func unloadDistant(s *mapstate.State, keepSet map[tilecoord.Coord]struct{}) {
	for _, u := range s.Cache.TilesToUnload(keepSet) {
		u.Texture.Release()
		s.Cache.Insert(u.Coord, tilestate.NewCached(u.Bytes, uint64(s.Tau)))
	}
}

// removeStale is step 4: Pending/Failed/Retrying/Exhausted tiles
// outside the keep set carry no resource and are erased outright.
func removeStale(s *mapstate.State, keepSet map[tilecoord.Coord]struct{}) {
	for _, coord := range s.Cache.StaleTiles(keepSet) {
		s.Cache.Remove(coord)
	}
}

// evictLRU is step 5: Cached tiles outside the keep set beyond
// max_cached_images are evicted oldest-first.
func evictLRU(s *mapstate.State, keepSet map[tilecoord.Coord]struct{}) {
	for _, coord := range s.Cache.CachedImagesToEvict(keepSet, s.Config.Cache.MaxCachedImages) {
		s.Cache.Remove(coord)
	}
}

// reloadCached is step 6: Cached tiles back in the visible set with no
// active task get re-decoded.
func reloadCached(s *mapstate.State) {
	visible := visibleSet(s)
	for _, r := range s.Cache.CachedTilesToReload(visible) {
		if _, active := s.ActiveTasks[r.Coord]; active {
			continue
		}
		s.Cache.Insert(r.Coord, tilestate.NewPending())
		s.SpawnDecode(r.Coord, r.Bytes)
	}
}

// drainResults is step 7: atomically swap the result queue and apply
// each result's state transition.
func drainResults(s *mapstate.State, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, res := range s.Engine.Queue.DrainAll() {
		_, hadTask := s.ActiveTasks[res.Coord]
		delete(s.ActiveTasks, res.Coord)

		if res.Err == nil {
			if !hadTask {
				// Cancelled-but-still-arrived: discard the texture, no
				// state transition.
				if res.Texture != nil {
					res.Texture.Release()
				}
				continue
			}
			s.Cache.Insert(res.Coord, tilestate.NewLoaded(res.Texture, res.Bytes))
			continue
		}

		logger.Debug("fetch error", "coord", res.Coord.Key(), "error", res.Err, "was_retry", res.WasRetry)

		if !hadTask {
			continue
		}

		cur, ok := s.Cache.Get(res.Coord)
		if res.WasRetry && ok && cur.Tag == tilestate.Retrying {
			rs := retry.Advance(cur.Retry, s.Tau, res.Err.Error())
			if retry.IsExhausted(s.Config.Retry, rs) {
				s.Cache.Insert(res.Coord, tilestate.NewExhausted(rs))
			} else {
				s.Cache.Insert(res.Coord, tilestate.NewFailed(rs))
			}
			continue
		}

		rs := retry.InitialFailure(s.Tau, res.Err.Error())
		s.Cache.Insert(res.Coord, tilestate.NewFailed(rs))
	}
}

// scheduleRetries is step 8: visible Failed tiles due for retry become
// Retrying and spawn a fetch with was_retry=true.
func scheduleRetries(s *mapstate.State) {
	for coord := range visibleSet(s) {
		st, ok := s.Cache.Get(coord)
		if !ok || st.Tag != tilestate.Failed {
			continue
		}
		if !retry.ShouldRetry(s.Config.Retry, st.Retry, s.Tau) {
			continue
		}
		s.Cache.Insert(coord, tilestate.NewRetrying(st.Retry))
		s.SpawnFetch(coord, true)
	}
}

// spawnNewFetches is step 10: parents first, then visible tiles by
// distance from center, then velocity-driven prefetch.
func spawnNewFetches(s *mapstate.State) {
	visible := s.Viewport.VisibleTilesWithBuffer(0)

	spawnIfAbsent := func(coord tilecoord.Coord) {
		if s.Cache.Contains(coord) {
			return
		}
		if _, active := s.ActiveTasks[coord]; active {
			return
		}
		s.Cache.Insert(coord, tilestate.NewPending())
		s.SpawnFetch(coord, false)
	}

	seenParents := make(map[tilecoord.Coord]struct{})
	for _, c := range visible {
		if p, ok := c.Parent(); ok {
			if _, dup := seenParents[p]; !dup {
				seenParents[p] = struct{}{}
				spawnIfAbsent(p)
			}
		}
	}

	cx, cy := s.Viewport.CenterTileFrac()
	sort.Slice(visible, func(i, j int) bool {
		return sqDist(visible[i], cx, cy) < sqDist(visible[j], cx, cy)
	})
	for _, c := range visible {
		spawnIfAbsent(c)
	}

	prefetchTiles(s, spawnIfAbsent, visible)
}

// prefetchTiles is step 10c: when the pan velocity exceeds
// min_velocity, predict the viewport at look_ahead_ms and prefetch its
// nearest not-yet-cached/visible tiles.
func prefetchTiles(s *mapstate.State, spawnIfAbsent func(tilecoord.Coord), visible []tilecoord.Coord) {
	if s.Velocity.Speed() < s.Config.MinVelocity {
		return
	}

	frames := float64(s.Config.LookAheadMs) / (1000.0 / 60.0)
	// Dragging right moves the map (and its center) left: the center
	// predicted ahead moves opposite the pan velocity.
	dLon, dLat := s.Viewport.PixelsToDegrees(-s.Velocity.VX*frames, -s.Velocity.VY*frames)

	predicted := s.Viewport
	predicted.CenterLat += dLat
	predicted.CenterLon += dLon
	predicted.CenterLat, predicted.CenterLon = viewport.ClampCenter(predicted.CenterLat, predicted.CenterLon)

	predictedVisible := predicted.VisibleTilesWithBuffer(0)

	exclude := make(map[tilecoord.Coord]struct{}, len(visible))
	for _, c := range visible {
		exclude[c] = struct{}{}
	}

	var candidates []tilecoord.Coord
	for _, c := range predictedVisible {
		if _, skip := exclude[c]; skip {
			continue
		}
		if s.Cache.Contains(c) {
			continue
		}
		candidates = append(candidates, c)
	}

	pcx, pcy := predicted.CenterTileFrac()
	sort.Slice(candidates, func(i, j int) bool {
		return sqDist(candidates[i], pcx, pcy) < sqDist(candidates[j], pcx, pcy)
	})

	if len(candidates) > s.Config.MaxPrefetchTiles {
		candidates = candidates[:s.Config.MaxPrefetchTiles]
	}
	for _, c := range candidates {
		spawnIfAbsent(c)
	}
}

func sqDist(c tilecoord.Coord, cx, cy float64) float64 {
	dx := float64(c.X) + 0.5 - cx
	dy := float64(c.Y) + 0.5 - cy
	return dx*dx + dy*dy
}

func visibleSet(s *mapstate.State) map[tilecoord.Coord]struct{} {
	visible := s.Viewport.VisibleTilesWithBuffer(0)
	set := make(map[tilecoord.Coord]struct{}, len(visible))
	for _, c := range visible {
		set[c] = struct{}{}
	}
	return set
}
