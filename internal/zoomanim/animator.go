// Package zoomanim implements the smooth zoom-animation controller: it
// advances a fractional display_zoom each frame toward an integer
// target while preserving the anchor-point screen invariant (the
// geographic point under the cursor when the zoom began stays under
// the cursor throughout the animation).
//
// No pack repo animates zoom; the step shape is lifted out of
// mapview/mapview.go's existing "recompute center from anchor after
// zoom" block (the pointer.Scroll handler), generalized from an
// instantaneous integer jump into a per-frame fractional step.
package zoomanim

import (
	"math"

	"github.com/go-slippy/slippy/internal/geo"
)

// Config holds the two knobs for the animator.
type Config struct {
	LerpFactor    float64
	SnapThreshold float64
}

// DefaultConfig returns lerp_factor=0.15, snap_threshold=0.01.
func DefaultConfig() Config {
	return Config{LerpFactor: 0.15, SnapThreshold: 0.01}
}

// State is the zoom-animation state carried in MapState.
type State struct {
	TargetZoom  int
	DisplayZoom float64

	AnchorLat, AnchorLon           float64
	AnchorScreenX, AnchorScreenY   float64

	IsAnimating bool
}

// Begin starts an animation toward targetZoom, anchored at
// (anchorLat,anchorLon) which must render at (anchorScreenX,
// anchorScreenY). It always marks the state as animating; if
// targetZoom already equals DisplayZoom, the next Step snaps and ends
// the animation.
func (s *State) Begin(targetZoom int, anchorLat, anchorLon, anchorScreenX, anchorScreenY float64) {
	s.TargetZoom = targetZoom
	s.AnchorLat, s.AnchorLon = anchorLat, anchorLon
	s.AnchorScreenX, s.AnchorScreenY = anchorScreenX, anchorScreenY
	s.IsAnimating = true
}

// Result is what Step produces for the caller to apply to the
// viewport: the new fractional display zoom and, while animating, the
// recomputed center that keeps the anchor fixed on screen.
type Result struct {
	DisplayZoom      float64
	CenterLat        float64
	CenterLon        float64
	IntegerZoom      int
	StillAnimating   bool
}

// Step advances the animation by one frame. screenW/screenH and
// tileSize are the viewport's current screen size and tile size,
// needed to recompute the anchor-preserving center.
func Step(cfg Config, s *State, screenW, screenH, tileSize int) Result {
	if !s.IsAnimating {
		return Result{DisplayZoom: s.DisplayZoom, IntegerZoom: clampZoom(int(math.Floor(s.DisplayZoom)))}
	}

	targetF := float64(s.TargetZoom)
	if math.Abs(targetF-s.DisplayZoom) < cfg.SnapThreshold {
		s.DisplayZoom = targetF
		s.IsAnimating = false
	} else {
		s.DisplayZoom += (targetF - s.DisplayZoom) * cfg.LerpFactor
	}

	centerLat, centerLon := centerForAnchor(s.AnchorLat, s.AnchorLon, s.AnchorScreenX, s.AnchorScreenY, screenW, screenH, tileSize, s.DisplayZoom)

	return Result{
		DisplayZoom:    s.DisplayZoom,
		CenterLat:      centerLat,
		CenterLon:      centerLon,
		IntegerZoom:    clampZoom(int(math.Floor(s.DisplayZoom))),
		StillAnimating: s.IsAnimating,
	}
}

// centerForAnchor recomputes the viewport center so that
// (anchorLat,anchorLon) still projects to (anchorScreenX,
// anchorScreenY) at displayZoom — the anchor-fixity invariant zoom-at-
// cursor depends on.
func centerForAnchor(anchorLat, anchorLon, anchorScreenX, anchorScreenY float64, screenW, screenH, tileSize int, displayZoom float64) (lat, lon float64) {
	atx, aty := geo.GeoToTileFrac(anchorLat, anchorLon, displayZoom)
	dtx := (anchorScreenX - float64(screenW)/2) / float64(tileSize)
	dty := (anchorScreenY - float64(screenH)/2) / float64(tileSize)
	return geo.TileFracToGeo(atx-dtx, aty-dty, displayZoom)
}

func clampZoom(z int) int {
	if z < 0 {
		return 0
	}
	if z > 19 {
		return 19
	}
	return z
}
