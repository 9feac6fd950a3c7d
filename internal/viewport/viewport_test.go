package viewport

import (
	"testing"

	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/stretchr/testify/require"
)

func baseViewport() Viewport {
	return Viewport{
		CenterLat: 51.507222,
		CenterLon: -0.1275,
		Zoom:      12,
		ScreenW:   1280,
		ScreenH:   720,
		TileSize:  256,
	}
}

func TestScreenGeoRoundTrip(t *testing.T) {
	v := baseViewport()
	lat, lon := v.CenterLat, v.CenterLon
	sx, sy := v.GeoToScreen(lat, lon)
	require.InDelta(t, float64(v.ScreenW)/2, sx, 1e-6)
	require.InDelta(t, float64(v.ScreenH)/2, sy, 1e-6)

	back := v.ScreenToGeo(sx, sy)
	require.InDelta(t, lat, back.Lat, 1e-6)
	require.InDelta(t, lon, back.Lon, 1e-6)
}

func TestVisibleTilesWithBufferContainsCenterTile(t *testing.T) {
	v := baseViewport()
	tiles := v.VisibleTilesWithBuffer(0)
	tx, ty := v.CenterTileFrac()
	centerCoord := tilecoord.Coord{X: int(tx), Y: int(ty), Z: v.Zoom}

	found := false
	for _, c := range tiles {
		if c == centerCoord {
			found = true
			break
		}
	}
	require.True(t, found, "expected visible set to contain the center tile %v, got %v", centerCoord, tiles)
}

func TestVisibleTilesOrderIndependence(t *testing.T) {
	v := baseViewport()
	a := v.VisibleTilesWithBuffer(3)
	b := v.VisibleTilesWithBuffer(3)

	setA := map[tilecoord.Coord]struct{}{}
	for _, c := range a {
		setA[c] = struct{}{}
	}
	setB := map[tilecoord.Coord]struct{}{}
	for _, c := range b {
		setB[c] = struct{}{}
	}
	require.Equal(t, setA, setB)
}

func TestVisibleTilesWrapAtDateLine(t *testing.T) {
	v := baseViewport()
	v.CenterLon = 179.9
	tiles := v.VisibleTilesWithBuffer(3)
	n := tilecoord.N(v.Zoom)
	for _, c := range tiles {
		require.GreaterOrEqual(t, c.X, 0)
		require.Less(t, c.X, n)
	}
}

func TestVisibleTilesClampAtPole(t *testing.T) {
	v := baseViewport()
	v.CenterLat = 84.9
	tiles := v.VisibleTilesWithBuffer(3)
	n := tilecoord.N(v.Zoom)
	for _, c := range tiles {
		require.GreaterOrEqual(t, c.Y, 0)
		require.Less(t, c.Y, n)
	}
}

func TestVisibleTileSetWithFallbacksIncludesParents(t *testing.T) {
	v := baseViewport()
	base := v.VisibleTilesWithBuffer(0)
	withFallback := v.VisibleTileSetWithFallbacks(0)

	for _, c := range base {
		p, ok := c.Parent()
		require.True(t, ok)
		_, present := withFallback[p]
		require.Truef(t, present, "expected parent %v of %v in fallback set", p, c)
	}
}

func TestPixelsToDegreesSignConvention(t *testing.T) {
	v := baseViewport()
	dLon, dLat := v.PixelsToDegrees(100, 0)
	require.Greater(t, dLon, 0.0)
	require.Equal(t, 0.0, dLat)

	dLon2, dLat2 := v.PixelsToDegrees(0, 100)
	require.Equal(t, 0.0, dLon2)
	require.Greater(t, dLat2, 0.0)
}

func TestClampCenterWrapsAndClamps(t *testing.T) {
	lat, lon := ClampCenter(90, 181)
	require.Equal(t, 85.0, lat)
	require.InDelta(t, -179.0, lon, 1e-9)
}
