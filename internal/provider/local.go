package provider

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-slippy/slippy/internal/tilecoord"
)

// Local is a debug/offline tile source that synthesizes a labeled
// placeholder tile instead of hitting the network. Grounded directly
// on tiles/localtiles.go (same background color, border and
// "{z}/{x}/{y}" label), adapted to return encoded PNG bytes (matching
// the same fetch contract as an HTTP download) rather than a
// gio-specific paint.ImageOp.
type Local struct {
	TileSize int
}

// NewLocal returns a Local provider at the standard 256px tile size.
func NewLocal() Local {
	return Local{TileSize: 256}
}

func (l Local) Name() string { return "local" }

// Render synthesizes and PNG-encodes a placeholder tile for coord.
func (l Local) Render(coord tilecoord.Coord) ([]byte, error) {
	size := l.TileSize
	if size == 0 {
		size = 256
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	bg := color.RGBA{200, 220, 255, 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{bg}, image.Point{}, draw.Src)

	drawLabel(img, size, coord)
	drawBorder(img, size)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("provider: encoding local placeholder for %s: %w", coord.Key(), err)
	}
	return buf.Bytes(), nil
}

func drawLabel(img *image.RGBA, size int, coord tilecoord.Coord) {
	text := fmt.Sprintf("%d/%d/%d", coord.Z, coord.X, coord.Y)
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.White), Face: face}

	textWidth := d.MeasureString(text).Round()
	textHeight := face.Metrics().Height.Round()

	padding := 10
	mid := size / 2
	bgRect := image.Rect(
		mid-textWidth/2-padding, mid-textHeight/2-padding,
		mid+textWidth/2+padding, mid+textHeight/2+padding,
	)
	draw.Draw(img, bgRect, &image.Uniform{color.RGBA{255, 255, 255, 220}}, image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I((size - textWidth) / 2),
		Y: fixed.I(mid + textHeight/2),
	}
	d.DrawString(text)
}

func drawBorder(img *image.RGBA, size int) {
	border := color.RGBA{100, 100, 100, 255}
	rects := []image.Rectangle{
		image.Rect(0, 0, size, 1),
		image.Rect(0, size-1, size, size),
		image.Rect(0, 0, 1, size),
		image.Rect(size-1, 0, size, size),
	}
	for _, r := range rects {
		draw.Draw(img, r, &image.Uniform{border}, image.Point{}, draw.Src)
	}
}
