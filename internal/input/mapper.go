// Package input translates pointer/scroll/key events into cache-safe
// viewport mutations: drag, zoom-at-cursor, keyboard pan/zoom, Home
// reset, and smoothed pan-velocity tracking for prefetch.
//
// Grounded on mapview/mapview.go's pointer-event loop
// (pointer.Press/Scroll/Drag/Release/Cancel), generalized to add
// keyboard handling (gioui.org/io/key, a sibling package to the one
// already imported for pointer input) and velocity smoothing the
// original code does not have.
package input

import (
	"math"

	"github.com/go-slippy/slippy/internal/viewport"
	"github.com/go-slippy/slippy/internal/zoomanim"
)

// Config holds the tunable knobs for input handling.
type Config struct {
	KeyboardPanSpeed  float64 // pixels
	VelocitySmoothing float64 // alpha, default 0.8
	VelocityDecay     float64 // default 0.9
}

// DefaultConfig returns keyboard_pan_speed=100, velocity_smoothing=0.8,
// velocity_decay=0.9.
func DefaultConfig() Config {
	return Config{KeyboardPanSpeed: 100, VelocitySmoothing: 0.8, VelocityDecay: 0.9}
}

// DragState tracks an in-progress drag gesture.
type DragState struct {
	Active                     bool
	StartScreenX, StartScreenY float64
	StartLat, StartLon         float64
	LastScreenX, LastScreenY   float64
}

// Velocity is the smoothed per-frame pan velocity (pixels/frame),
// used by the orchestrator's prefetch step.
type Velocity struct {
	VX, VY float64
}

// Speed returns the velocity magnitude, used against min_velocity to
// decide whether the orchestrator's prefetch step runs.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.VX, v.VY)
}

// InitialView is the viewport state Home resets to.
type InitialView struct {
	Lat, Lon float64
	Zoom     int
}

// Mapper applies input events to a Viewport, clamping every mutation
// to Bounds; latitude is additionally hard-clamped to ±85°.
type Mapper struct {
	Config Config
	Bounds viewport.Bounds
}

func New(cfg Config, bounds viewport.Bounds) *Mapper {
	return &Mapper{Config: cfg, Bounds: bounds}
}

func (m *Mapper) clamp(v *viewport.Viewport) {
	v.CenterLat = m.Bounds.ClampLat(v.CenterLat)
	v.CenterLon = m.Bounds.ClampLon(v.CenterLon)
	v.Zoom = m.Bounds.ClampZoom(v.Zoom)
}

// BeginDrag captures the drag-start anchor on the first held frame.
func (m *Mapper) BeginDrag(v *viewport.Viewport, ds *DragState, sx, sy float64) {
	ds.Active = true
	ds.StartScreenX, ds.StartScreenY = sx, sy
	ds.LastScreenX, ds.LastScreenY = sx, sy
	ds.StartLat, ds.StartLon = v.CenterLat, v.CenterLon
}

// Drag applies one held-drag frame: translates the pixel delta since
// drag start into a degree delta relative to the drag-start center,
// and updates the smoothed per-frame velocity from the delta since the
// previous frame.
func (m *Mapper) Drag(v *viewport.Viewport, ds *DragState, vel *Velocity, sx, sy float64) {
	totalDX := sx - ds.StartScreenX
	totalDY := sy - ds.StartScreenY

	startViewport := *v
	startViewport.CenterLat, startViewport.CenterLon = ds.StartLat, ds.StartLon
	dLon, dLat := startViewport.PixelsToDegrees(-totalDX, -totalDY)

	v.CenterLat = ds.StartLat + dLat
	v.CenterLon = ds.StartLon + dLon
	m.clamp(v)

	frameDX := sx - ds.LastScreenX
	frameDY := sy - ds.LastScreenY
	a := m.Config.VelocitySmoothing
	vel.VX = a*vel.VX + (1-a)*frameDX
	vel.VY = a*vel.VY + (1-a)*frameDY

	ds.LastScreenX, ds.LastScreenY = sx, sy
}

// EndDrag marks the drag inactive; velocity decay from here on is the
// caller's responsibility via DecayVelocity, called once per frame
// while not dragging.
func (m *Mapper) EndDrag(ds *DragState) {
	ds.Active = false
}

// DecayVelocity geometrically decays the pan velocity by
// velocity_decay each frame the user isn't actively dragging.
func (m *Mapper) DecayVelocity(vel *Velocity) {
	vel.VX *= m.Config.VelocityDecay
	vel.VY *= m.Config.VelocityDecay
}

// Scroll consumes one frame's accumulated scroll delta. On a non-zero
// delta it adjusts target_zoom and, if an animation isn't already in
// flight, captures the cursor's screen position and current geo
// projection as the zoom animator's anchor. last_zoom_change_frame is
// updated whenever delta != 0, regardless of whether a new animation
// started, so the debounce window covers every scroll tick.
func (m *Mapper) Scroll(v *viewport.Viewport, anim *zoomanim.State, tau int64, lastZoomChangeFrame *int64, scrollY, cursorX, cursorY float64) {
	delta := sign(scrollY)
	if delta == 0 {
		return
	}

	base := anim.TargetZoom
	if !anim.IsAnimating {
		// With no animation in flight the viewport's zoom is the target.
		base = v.Zoom
	}
	newTarget := m.Bounds.ClampZoom(base + delta)
	if !anim.IsAnimating {
		anchor := v.ScreenToGeo(cursorX, cursorY)
		anim.Begin(newTarget, anchor.Lat, anchor.Lon, cursorX, cursorY)
	} else {
		anim.TargetZoom = newTarget
	}
	*lastZoomChangeFrame = tau
}

func sign(f float64) int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	default:
		return 0
	}
}

// Key identifies the subset of keys the mapper understands. Concrete
// values are produced by the windowing adapter translating
// gioui.org/io/key.Event codes.
type Key int

const (
	KeyNone Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyZoomIn
	KeyZoomOut
	KeyDigit0
	KeyDigit1
	KeyDigit2
	KeyDigit3
	KeyDigit4
	KeyDigit5
	KeyDigit6
	KeyDigit7
	KeyDigit8
	KeyDigit9
	KeyHome
)

// Keyboard applies one keycode per frame: arrow keys pan by
// keyboard_pan_speed pixels, +/- zoom in/out centered with no anchor
// animation, digits 1-9 set zoom=n (0 sets zoom=10), Home resets to
// initial.
func (m *Mapper) Keyboard(v *viewport.Viewport, anim *zoomanim.State, initial InitialView, key Key) {
	switch key {
	case KeyUp:
		m.panByPixels(v, 0, -m.Config.KeyboardPanSpeed)
	case KeyDown:
		m.panByPixels(v, 0, m.Config.KeyboardPanSpeed)
	case KeyLeft:
		m.panByPixels(v, -m.Config.KeyboardPanSpeed, 0)
	case KeyRight:
		m.panByPixels(v, m.Config.KeyboardPanSpeed, 0)
	case KeyZoomIn:
		m.setZoomNoAnchor(v, anim, v.Zoom+1)
	case KeyZoomOut:
		m.setZoomNoAnchor(v, anim, v.Zoom-1)
	case KeyDigit0:
		m.setZoomNoAnchor(v, anim, 10)
	case KeyDigit1, KeyDigit2, KeyDigit3, KeyDigit4, KeyDigit5,
		KeyDigit6, KeyDigit7, KeyDigit8, KeyDigit9:
		m.setZoomNoAnchor(v, anim, int(key-KeyDigit0))
	case KeyHome:
		v.CenterLat, v.CenterLon, v.Zoom = initial.Lat, initial.Lon, initial.Zoom
		anim.DisplayZoom = float64(initial.Zoom)
		anim.TargetZoom = initial.Zoom
		anim.IsAnimating = false
		m.clamp(v)
	}
}

func (m *Mapper) panByPixels(v *viewport.Viewport, dx, dy float64) {
	dLon, dLat := v.PixelsToDegrees(dx, dy)
	v.CenterLat += dLat
	v.CenterLon += dLon
	m.clamp(v)
}

func (m *Mapper) setZoomNoAnchor(v *viewport.Viewport, anim *zoomanim.State, z int) {
	z = m.Bounds.ClampZoom(z)
	v.Zoom = z
	anim.TargetZoom = z
	anim.DisplayZoom = float64(z)
	anim.IsAnimating = false
}
