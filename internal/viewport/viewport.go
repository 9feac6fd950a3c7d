// Package viewport models the screen: a center point, an integer zoom,
// a screen size and a tile size, and the conversions between pixels,
// geographic coordinates and tile coordinates. Grounded on
// tiles/coordinates.go (CalculateVisibleTiles, ConstrainTile,
// CalculateWorldCoordinates/WorldToLatLng) and mapview/mapview.go's use
// of those functions for drag and zoom-to-cursor.
package viewport

import (
	"math"

	"github.com/go-slippy/slippy/internal/geo"
	"github.com/go-slippy/slippy/internal/tilecoord"
)

// Viewport holds the map's visible state: center, integer zoom,
// screen size and tile size (pixels per tile; 256 or 512 for @2x
// tilesets).
type Viewport struct {
	CenterLat, CenterLon float64
	Zoom                 int
	ScreenW, ScreenH     int
	TileSize             int
}

// WorldSize returns the total pixel width/height of the world map at
// v's current integer zoom.
func (v Viewport) WorldSize() float64 {
	return float64(v.TileSize) * math.Pow(2, float64(v.Zoom))
}

// CenterWorldPixel returns the viewport's center in world pixel space
// at its integer zoom, grounded on CalculateWorldCoordinates.
func (v Viewport) CenterWorldPixel() (x, y float64) {
	return WorldPixel(v.CenterLat, v.CenterLon, float64(v.Zoom), v.TileSize)
}

// CenterWorldPixelAtZoom is CenterWorldPixel generalized to an
// arbitrary fractional zoom, used by the render walker and the zoom
// animator which both operate on display_zoom rather than the integer
// viewport.Zoom.
func (v Viewport) CenterWorldPixelAtZoom(zf float64) (x, y float64) {
	return WorldPixel(v.CenterLat, v.CenterLon, zf, v.TileSize)
}

// WorldPixel projects (lat, lon) to world pixel coordinates at
// fractional zoom zf and the given tile size.
func WorldPixel(lat, lon, zf float64, tileSize int) (x, y float64) {
	tx, ty := geo.GeoToTileFrac(lat, lon, zf)
	return tx * float64(tileSize), ty * float64(tileSize)
}

// WorldPixelToGeo is the inverse of WorldPixel.
func WorldPixelToGeo(x, y, zf float64, tileSize int) geo.LatLon {
	lat, lon := geo.TileFracToGeo(x/float64(tileSize), y/float64(tileSize), zf)
	return geo.LatLon{Lat: lat, Lon: lon}
}

// ScreenToGeo converts a screen pixel position to a geographic point,
// given the viewport's current center/zoom/size.
func (v Viewport) ScreenToGeo(sx, sy float64) geo.LatLon {
	cwx, cwy := v.CenterWorldPixel()
	wx := cwx + (sx - float64(v.ScreenW)/2)
	wy := cwy + (sy - float64(v.ScreenH)/2)
	return WorldPixelToGeo(wx, wy, float64(v.Zoom), v.TileSize)
}

// GeoToScreen converts a geographic point to a screen pixel position
// at v's current center/zoom/size.
func (v Viewport) GeoToScreen(lat, lon float64) (sx, sy float64) {
	cwx, cwy := v.CenterWorldPixel()
	wx, wy := WorldPixel(lat, lon, float64(v.Zoom), v.TileSize)
	return float64(v.ScreenW)/2 + (wx - cwx), float64(v.ScreenH)/2 + (wy - cwy)
}

// PixelsToDegrees converts a screen pixel delta to a (dLon, dLat)
// degree delta, used for drag. The cosine factor on the vertical axis
// is an approximation used for drag feel, not true Mercator;
// preserved here deliberately (see DESIGN.md).
func (v Viewport) PixelsToDegrees(dx, dy float64) (dLon, dLat float64) {
	n := math.Pow(2, float64(v.Zoom))
	latRad := v.CenterLat * math.Pi / 180
	dLon = dx * 360 / (n * float64(v.TileSize))
	dLat = dy * 360 * math.Cos(latRad) / (n * float64(v.TileSize))
	return dLon, dLat
}

// VisibleTilesWithBuffer computes the fractional tile-space extents of
// the screen rectangle, expands by `buffer` tiles on each edge, and
// enumerates all integer tiles touched. X wraps modulo 2^z; Y clamps
// to [0, 2^z). The returned slice's order is not significant.
func (v Viewport) VisibleTilesWithBuffer(buffer int) []tilecoord.Coord {
	cwx, cwy := v.CenterWorldPixel()
	halfW, halfH := float64(v.ScreenW)/2, float64(v.ScreenH)/2
	ts := float64(v.TileSize)

	minTX := math.Floor((cwx-halfW)/ts) - float64(buffer)
	maxTX := math.Ceil((cwx+halfW)/ts) + float64(buffer)
	minTY := math.Floor((cwy-halfH)/ts) - float64(buffer)
	maxTY := math.Ceil((cwy+halfH)/ts) + float64(buffer)

	n := tilecoord.N(v.Zoom)
	out := make([]tilecoord.Coord, 0, int(maxTX-minTX+1)*int(maxTY-minTY+1))
	seen := make(map[tilecoord.Coord]struct{})
	for x := int(minTX); x <= int(maxTX); x++ {
		wx := tilecoord.Wrap(x, n)
		for y := int(minTY); y <= int(maxTY); y++ {
			wy := y
			if wy < 0 {
				wy = 0
			} else if wy >= n {
				wy = n - 1
			}
			c := tilecoord.Coord{X: wx, Y: wy, Z: v.Zoom}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// VisibleTileSetWithFallbacks is base ∪ parents ∪ grandparents ∪
// children. The orchestrator's ComputeKeepSet does not call it; it
// builds its keep set from VisibleTilesWithBuffer and cache state.
func (v Viewport) VisibleTileSetWithFallbacks(buffer int) map[tilecoord.Coord]struct{} {
	base := v.VisibleTilesWithBuffer(buffer)
	set := make(map[tilecoord.Coord]struct{}, len(base)*3)
	for _, c := range base {
		set[c] = struct{}{}
		if p, ok := c.Parent(); ok {
			set[p] = struct{}{}
			if gp, ok := p.Parent(); ok {
				set[gp] = struct{}{}
			}
		}
		if children, ok := c.Children(); ok {
			for _, ch := range children {
				set[ch] = struct{}{}
			}
		}
	}
	return set
}

// CenterTileFrac returns the fractional tile coordinates of the
// viewport's center, used to sort visible tiles by distance from
// center for fetch prioritization.
func (v Viewport) CenterTileFrac() (tx, ty float64) {
	return geo.GeoToTileFrac(v.CenterLat, v.CenterLon, float64(v.Zoom))
}

// ClampCenter clamps CenterLat to the Web-Mercator range and wraps
// CenterLon into [-180,180), returning the corrected point. Map-bounds
// clamping beyond this hard limit is the input mapper's
// responsibility (see internal/input).
func ClampCenter(lat, lon float64) (float64, float64) {
	return geo.ClampLat(lat), geo.WrapLon(lon)
}
