// Package mapstate holds MapState, the pervasive aggregate the
// orchestrator and renderer mutate by reference on the main thread:
// viewport, tile cache, active-task registry, disk-cache index, frame
// counter, drag/velocity/zoom-animation state and the collaborators
// (fetch engine, URL provider) everything else is wired through.
package mapstate

import (
	"context"

	"github.com/go-slippy/slippy/internal/config"
	"github.com/go-slippy/slippy/internal/diskcache"
	"github.com/go-slippy/slippy/internal/fetch"
	"github.com/go-slippy/slippy/internal/input"
	"github.com/go-slippy/slippy/internal/provider"
	"github.com/go-slippy/slippy/internal/tilecache"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/viewport"
	"github.com/go-slippy/slippy/internal/zoomanim"
)

// ActiveTask pairs the cancel function the orchestrator flips on
// eviction with a record of whether this task was itself a retry. The
// result-queue drain (step 7) does not read WasRetry here; it uses the
// result's own WasRetry flag together with the tile's cache state.
type ActiveTask struct {
	Cancel   context.CancelFunc
	WasRetry bool
}

// State is MapState: everything the update orchestrator needs across
// frames, mutated without locks since only the main thread touches it.
type State struct {
	Config config.Config

	Viewport viewport.Viewport
	Bounds   viewport.Bounds

	Cache       *tilecache.Cache
	DiskIndex   *diskcache.Index
	Store       *diskcache.Store
	Engine      *fetch.Engine
	Provider    provider.URLProvider
	TilesetName string

	ActiveTasks map[tilecoord.Coord]ActiveTask

	Tau int64

	Mapper              *input.Mapper
	Drag                input.DragState
	Velocity            input.Velocity
	LastZoomChangeFrame int64

	ZoomAnim zoomanim.State

	Initial input.InitialView
}

// New builds a MapState wired from cfg: fresh cache, disk index/store,
// fetch engine and input mapper, centered on cfg's initial view.
func New(cfg config.Config, p provider.URLProvider, decoder fetch.Decoder, clock diskcache.Clock) *State {
	cache := tilecache.New(cfg.Retry, cfg.Cache)
	store := diskcache.NewStore(cfg.CacheDir, cfg.TilesetName)
	index := diskcache.New(cfg.DiskMaxBytes, clock)
	engine := fetch.New(store, index, p, decoder, clock, nil)

	vp := viewport.Viewport{
		CenterLat: cfg.InitialLat, CenterLon: cfg.InitialLon,
		Zoom: cfg.InitialZoom, ScreenW: cfg.WindowW, ScreenH: cfg.WindowH,
		TileSize: cfg.TileSize,
	}

	return &State{
		Config:      cfg,
		Viewport:    vp,
		Bounds:      cfg.Bounds,
		Cache:       cache,
		DiskIndex:   index,
		Store:       store,
		Engine:      engine,
		Provider:    p,
		TilesetName: cfg.TilesetName,
		ActiveTasks: make(map[tilecoord.Coord]ActiveTask),
		Mapper:      input.New(cfg.Input, cfg.Bounds),
		ZoomAnim:    zoomanim.State{DisplayZoom: float64(cfg.InitialZoom)},
		Initial:     input.InitialView{Lat: cfg.InitialLat, Lon: cfg.InitialLon, Zoom: cfg.InitialZoom},
	}
}

// CancelTask flips coord's cancel flag, if an active task exists, and
// drops the registry entry. Cancellation is idempotent: calling this
// twice for the same coord is harmless.
func (s *State) CancelTask(coord tilecoord.Coord) {
	if t, ok := s.ActiveTasks[coord]; ok {
		t.Cancel()
		delete(s.ActiveTasks, coord)
	}
}

// SpawnFetch registers an active task and starts it on the engine.
func (s *State) SpawnFetch(coord tilecoord.Coord, wasRetry bool) {
	ctx, cancel := context.WithCancel(context.Background())
	s.ActiveTasks[coord] = ActiveTask{Cancel: cancel, WasRetry: wasRetry}
	s.Engine.SpawnFetch(ctx, coord, wasRetry)
}

// SpawnDecode registers an active task and starts a re-decode on the
// engine.
func (s *State) SpawnDecode(coord tilecoord.Coord, bytes []byte) {
	ctx, cancel := context.WithCancel(context.Background())
	s.ActiveTasks[coord] = ActiveTask{Cancel: cancel}
	s.Engine.SpawnDecode(ctx, coord, bytes)
}
