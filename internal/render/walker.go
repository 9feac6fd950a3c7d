// Package render implements the render walker: it iterates the
// visible tile set and emits the textured-quad draw calls the
// GPU-renderer collaborator needs, choosing parent-fallback
// sub-regions for tiles that aren't loaded yet.
//
// The walker itself is pure data-in/data-out (Viewport + Cache ->
// []DrawCall) so it's testable without a live GPU context; a thin
// adapter (gio_adapter.go) turns a []DrawCall into actual
// gioui.org/op/paint calls. Grounded on mapview/mapview.go's draw loop
// (op.Offset + paint.NewImageOp + paint.PaintOp), extended with
// source-rectangle sub-regions the original single-scale draw never
// needed.
package render

import (
	"math"

	"github.com/go-slippy/slippy/internal/tilecache"
	"github.com/go-slippy/slippy/internal/tilecoord"
	"github.com/go-slippy/slippy/internal/tilestate"
	"github.com/go-slippy/slippy/internal/viewport"
)

// DrawCall is one textured-quad draw: a UV sub-region of Texture
// (SrcX/Y/W/H, all in [0,1]) drawn into a destination pixel rectangle
// (DstX/Y/W/H, in screen pixels from the top-left corner).
type DrawCall struct {
	Coord                  tilecoord.Coord
	Texture                tilestate.Texture
	SrcX, SrcY, SrcW, SrcH float64
	DstX, DstY, DstW, DstH float64
	Alpha                  float64
}

// MaxFallbackLevels caps the parent-fallback walk: walk up parents
// until a Loaded ancestor is found at distance <= 3.
const MaxFallbackLevels = 3

// Walk computes this frame's draw calls for v at fractional zoom
// displayZoom, reading tile states from cache. It performs two
// passes: background (loaded parents, drawn double-size) then
// foreground (visible tiles, loaded or parent-fallback).
func Walk(v viewport.Viewport, cache *tilecache.Cache, displayZoom float64) []DrawCall {
	visible := v.VisibleTilesWithBuffer(0)
	cwx, cwy := v.CenterWorldPixelAtZoom(displayZoom)
	halfW, halfH := float64(v.ScreenW)/2, float64(v.ScreenH)/2

	var calls []DrawCall

	// Pass 1: background parents of visible tiles, if Loaded.
	seenParents := make(map[tilecoord.Coord]struct{})
	for _, c := range visible {
		p, ok := c.Parent()
		if !ok {
			continue
		}
		if _, dup := seenParents[p]; dup {
			continue
		}
		seenParents[p] = struct{}{}
		s, ok := cache.Get(p)
		if !ok || s.Tag != tilestate.Loaded {
			continue
		}
		trueScale := math.Pow(2, displayZoom-float64(p.Z))
		calls = append(calls, fullQuad(p, s.Texture, trueScale, 2, cwx, cwy, halfW, halfH, v.TileSize))
	}

	// Pass 2: foreground, visible tile or parent fallback.
	for _, c := range visible {
		s, ok := cache.Get(c)
		if ok && s.Tag == tilestate.Loaded {
			trueScale := math.Pow(2, displayZoom-float64(c.Z))
			calls = append(calls, fullQuad(c, s.Texture, trueScale, 1, cwx, cwy, halfW, halfH, v.TileSize))
			continue
		}
		if dc, ok := findParentFallback(cache, c, MaxFallbackLevels, displayZoom, cwx, cwy, halfW, halfH, v.TileSize); ok {
			calls = append(calls, dc)
		}
	}

	return calls
}

// fullQuad draws c's whole texture into a rectangle sizeMultiplier
// times c's normally-scaled footprint, centered on the tile's true
// screen position. sizeMultiplier is 1 for the foreground pass and 2
// for the background parent pass's double-size overdraw.
func fullQuad(c tilecoord.Coord, tex tilestate.Texture, trueScale, sizeMultiplier, cwx, cwy, halfW, halfH float64, tileSize int) DrawCall {
	trueSize := float64(tileSize) * trueScale
	tileWorldX := float64(c.X) * trueSize
	tileWorldY := float64(c.Y) * trueSize
	centerX := tileWorldX + trueSize/2
	centerY := tileWorldY + trueSize/2

	destSize := trueSize * sizeMultiplier
	nwX := centerX - destSize/2
	nwY := centerY - destSize/2

	return DrawCall{
		Coord: c, Texture: tex,
		SrcX: 0, SrcY: 0, SrcW: 1, SrcH: 1,
		DstX: halfW + (nwX - cwx), DstY: halfH + (nwY - cwy),
		DstW: destSize, DstH: destSize,
		Alpha: 1,
	}
}

// findParentFallback walks up from coord looking for a Loaded
// ancestor at distance <= maxLevels, and if found returns the draw
// call for the ancestor's sub-region scaled to coord's destination
// rectangle.
func findParentFallback(cache *tilecache.Cache, coord tilecoord.Coord, maxLevels int, displayZoom, cwx, cwy, halfW, halfH float64, tileSize int) (DrawCall, bool) {
	cur := coord
	for d := 1; d <= maxLevels; d++ {
		p, ok := cur.Parent()
		if !ok {
			return DrawCall{}, false
		}
		if s, ok := cache.Get(p); ok && s.Tag == tilestate.Loaded {
			div := math.Pow(2, float64(d))
			offX := float64(coord.X-p.X*int(div)) / div
			offY := float64(coord.Y-p.Y*int(div)) / div
			srcW := 1 / div
			srcH := 1 / div

			scale := math.Pow(2, displayZoom-float64(coord.Z))
			destSize := float64(tileSize) * scale
			tileWorldX := float64(coord.X) * destSize
			tileWorldY := float64(coord.Y) * destSize

			return DrawCall{
				Coord: coord, Texture: s.Texture,
				SrcX: offX, SrcY: offY, SrcW: srcW, SrcH: srcH,
				DstX: halfW + (tileWorldX - cwx), DstY: halfH + (tileWorldY - cwy),
				DstW: destSize, DstH: destSize,
				Alpha: 1,
			}, true
		}
		cur = p
	}
	return DrawCall{}, false
}
