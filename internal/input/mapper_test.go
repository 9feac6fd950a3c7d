package input

import (
	"testing"

	"github.com/go-slippy/slippy/internal/viewport"
	"github.com/go-slippy/slippy/internal/zoomanim"
	"github.com/stretchr/testify/require"
)

func testViewport() viewport.Viewport {
	return viewport.Viewport{
		CenterLat: 0, CenterLon: 0,
		Zoom: 10, ScreenW: 1280, ScreenH: 720, TileSize: 256,
	}
}

func TestDragMovesCenterOppositeDragDirection(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	var ds DragState
	var vel Velocity

	m.BeginDrag(&v, &ds, 640, 360)
	m.Drag(&v, &ds, &vel, 700, 360) // dragged right -> map should pan so center moves west (lon decreases)

	require.Less(t, v.CenterLon, 0.0)
	require.InDelta(t, 0, v.CenterLat, 1e-9)
}

func TestDragUpdatesVelocityTowardFrameDelta(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	var ds DragState
	var vel Velocity

	m.BeginDrag(&v, &ds, 0, 0)
	m.Drag(&v, &ds, &vel, 10, 0)
	require.Greater(t, vel.VX, 0.0)

	prev := vel.VX
	m.Drag(&v, &ds, &vel, 20, 0)
	require.Greater(t, vel.VX, 0.0)
	_ = prev
}

func TestEndDragThenDecayVelocityShrinksTowardZero(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	vel := Velocity{VX: 10, VY: 10}
	m.EndDrag(&DragState{})
	for i := 0; i < 50; i++ {
		m.DecayVelocity(&vel)
	}
	require.InDelta(t, 0, vel.VX, 0.1)
	require.InDelta(t, 0, vel.VY, 0.1)
}

func TestDragClampsAtBounds(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	v.CenterLat = 84.9
	var ds DragState
	var vel Velocity

	m.BeginDrag(&v, &ds, 0, 0)
	m.Drag(&v, &ds, &vel, 0, -100000) // drag far up, should clamp at MaxLat

	require.LessOrEqual(t, v.CenterLat, 85.0)
}

func TestScrollBeginsAnimationAnchoredAtCursor(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{DisplayZoom: float64(v.Zoom)}
	var lastZoomFrame int64

	m.Scroll(&v, anim, 42, &lastZoomFrame, 1, 700, 400)

	require.True(t, anim.IsAnimating)
	require.Equal(t, v.Zoom+1, anim.TargetZoom)
	require.Equal(t, 700.0, anim.AnchorScreenX)
	require.Equal(t, 400.0, anim.AnchorScreenY)
	require.Equal(t, int64(42), lastZoomFrame)
}

func TestScrollZeroDeltaIsNoop(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{DisplayZoom: float64(v.Zoom)}
	var lastZoomFrame int64 = 7

	m.Scroll(&v, anim, 42, &lastZoomFrame, 0, 700, 400)

	require.False(t, anim.IsAnimating)
	require.Equal(t, int64(7), lastZoomFrame)
}

func TestScrollDuringAnimationUpdatesTargetNotAnchor(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{DisplayZoom: float64(v.Zoom)}
	var lastZoomFrame int64

	m.Scroll(&v, anim, 1, &lastZoomFrame, 1, 700, 400)
	firstAnchorLat := anim.AnchorLat

	m.Scroll(&v, anim, 2, &lastZoomFrame, 1, 999, 999)

	require.Equal(t, firstAnchorLat, anim.AnchorLat)
	require.Equal(t, v.Zoom+2, anim.TargetZoom)
}

func TestKeyboardArrowPansBySpeed(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{DisplayZoom: float64(v.Zoom)}

	m.Keyboard(&v, anim, InitialView{}, KeyRight)
	require.Greater(t, v.CenterLon, 0.0)
}

func TestKeyboardDigitSetsZoom(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{}

	m.Keyboard(&v, anim, InitialView{}, KeyDigit5)
	require.Equal(t, 5, v.Zoom)
	require.Equal(t, 5, anim.TargetZoom)
	require.False(t, anim.IsAnimating)
}

func TestKeyboardDigit0SetsZoom10(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	anim := &zoomanim.State{}

	m.Keyboard(&v, anim, InitialView{}, KeyDigit0)
	require.Equal(t, 10, v.Zoom)
}

func TestKeyboardHomeResetsToInitialView(t *testing.T) {
	m := New(DefaultConfig(), viewport.DefaultBounds())
	v := testViewport()
	v.CenterLat, v.CenterLon, v.Zoom = 40, 40, 15
	anim := &zoomanim.State{IsAnimating: true}
	initial := InitialView{Lat: 51.5, Lon: -0.1, Zoom: 12}

	m.Keyboard(&v, anim, initial, KeyHome)

	require.Equal(t, initial.Lat, v.CenterLat)
	require.Equal(t, initial.Lon, v.CenterLon)
	require.Equal(t, initial.Zoom, v.Zoom)
	require.False(t, anim.IsAnimating)
}

func TestVelocitySpeed(t *testing.T) {
	v := Velocity{VX: 3, VY: 4}
	require.InDelta(t, 5.0, v.Speed(), 1e-9)
}
