package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeoToTileFracRoundTrip(t *testing.T) {
	cases := []struct {
		lat, lon float64
		z        float64
	}{
		{0, 0, 0},
		{51.507222, -0.1275, 12},
		{-33.86, 151.2, 5},
		{84.9, 179.999, 19},
		{-84.9, -179.999, 19},
		{37.7749, -122.4194, 12.5},
	}
	for _, c := range cases {
		tx, ty := GeoToTileFrac(c.lat, c.lon, c.z)
		lat, lon := TileFracToGeo(tx, ty, c.z)
		require.InDeltaf(t, c.lat, lat, 1e-6, "lat round-trip for %+v", c)
		require.InDeltaf(t, c.lon, lon, 1e-6, "lon round-trip for %+v", c)
	}
}

func TestTileAtFloorsToNorthwestCorner(t *testing.T) {
	// Re-projecting a geo point through integer tile coordinates
	// recovers the tile's northwest corner, not the original point.
	lat, lon, z := 51.51, -0.13, 10
	x, y := TileAt(lat, lon, z)

	nwLat, nwLon := TileFracToGeo(float64(x), float64(y), float64(z))

	tx, ty := GeoToTileFrac(nwLat, nwLon, float64(z))
	require.InDelta(t, float64(x), tx, 1e-9)
	require.InDelta(t, float64(y), ty, 1e-9)
}

func TestClampLat(t *testing.T) {
	require.Equal(t, MaxLat, ClampLat(90))
	require.Equal(t, MinLat, ClampLat(-90))
	require.Equal(t, 10.0, ClampLat(10))
}

func TestWrapLon(t *testing.T) {
	tests := map[float64]float64{
		0:     0,
		180:   -180,
		-180:  -180,
		181:   -179,
		-181:  179,
		360:   0,
		720.5: 0.5,
	}
	for in, want := range tests {
		got := WrapLon(in)
		require.InDelta(t, want, got, 1e-9, "WrapLon(%v)", in)
	}
}

func TestMetersPerPixelDecreasesWithZoom(t *testing.T) {
	a := MetersPerPixel(0, 5, 256)
	b := MetersPerPixel(0, 6, 256)
	require.Greater(t, a, b)
	require.False(t, math.IsNaN(a) || math.IsInf(a, 0))
}
