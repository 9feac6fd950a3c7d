// Package config aggregates every subsystem default into one plain
// struct with a DefaultConfig() constructor, grounded on
// rotblauer-catd/params's per-subsystem Config/DefaultXConfig()
// pattern (e.g. params/tile_daemon.go). No config-file library is
// wired in: spf13/viper appears in rotblauer-catd's go.mod but is not
// actually imported by any of its own source (verified by search), so
// it is not treated as a grounded precedent here — see DESIGN.md.
package config

import (
	"time"

	"github.com/go-slippy/slippy/internal/input"
	"github.com/go-slippy/slippy/internal/retry"
	"github.com/go-slippy/slippy/internal/tilecache"
	"github.com/go-slippy/slippy/internal/viewport"
	"github.com/go-slippy/slippy/internal/zoomanim"
)

// Config is every tunable the orchestrator, cache, fetch engine and
// input mapper need, gathered in one place for a CLI/flags layer to
// populate.
type Config struct {
	Retry    retry.Config
	Cache    tilecache.UnloadConfig
	ZoomAnim zoomanim.Config
	Input    input.Config
	Bounds   viewport.Bounds

	DiskMaxBytes int64

	ZoomDebounceFrames int64

	LookAheadMs       int64
	MinVelocity       float64
	MaxPrefetchTiles  int
	FrameInterval     time.Duration

	CacheDir    string
	TilesetName string
	WindowW     int
	WindowH     int
	TileSize    int

	InitialLat  float64
	InitialLon  float64
	InitialZoom int
}

// DefaultConfig returns every subsystem's tuned default, plus the
// ambient window/cache-location defaults the CLI layer exposes as
// flags.
func DefaultConfig() Config {
	return Config{
		Retry:    retry.DefaultConfig(),
		Cache:    tilecache.DefaultUnloadConfig(),
		ZoomAnim: zoomanim.DefaultConfig(),
		Input:    input.DefaultConfig(),
		Bounds:   viewport.DefaultBounds(),

		DiskMaxBytes: 100 * 1024 * 1024,

		ZoomDebounceFrames: 6,

		LookAheadMs:      500,
		MinVelocity:      5,
		MaxPrefetchTiles: 8,
		FrameInterval:    time.Second / 60,

		CacheDir:    "tilecache",
		TilesetName: "cartodb-dark-all",
		WindowW:     1280,
		WindowH:     720,
		TileSize:    512,

		InitialLat:  51.507222,
		InitialLon:  -0.1275,
		InitialZoom: 12,
	}
}
