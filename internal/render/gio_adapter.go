//go:build !headless

package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"gioui.org/f32"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"

	"github.com/go-slippy/slippy/internal/tilestate"
)

// GioTexture wraps a decoded image.Image as a gioui paint.ImageOp.
// gioui owns and releases GPU-side texture memory as part of its own
// render-list/compositor lifecycle (it has no explicit texture-destroy
// call, unlike e.g. raylib's UnloadTexture); Release here drops our
// only Go-side reference, which is the adapter's idiomatic equivalent
// of destroy_texture and is safe to call more than once.
type GioTexture struct {
	Op            paint.ImageOp
	Width, Height int
	released      bool
}

func (t *GioTexture) Release() {
	t.released = true
	t.Op = paint.ImageOp{}
}

// Decoder turns encoded tile bytes into a Texture, grounded on
// tilemanager.go's image.Decode + paint.NewImageOp path.
type Decoder struct{}

func (Decoder) Decode(data []byte) (tilestate.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("render: decoding tile image: %w", err)
	}
	b := img.Bounds()
	return &GioTexture{Op: paint.NewImageOp(img), Width: b.Dx(), Height: b.Dy()}, nil
}

// Paint issues gtx.Ops draw calls for each DrawCall, grounded on
// mapview/mapview.go's op.Offset + paint.NewImageOp + paint.PaintOp
// draw loop, extended with clip.Rect to realize a DrawCall's
// sub-region (Src*) rather than always painting the whole texture.
func Paint(gtx layout.Context, calls []DrawCall) {
	for _, dc := range calls {
		tex, ok := dc.Texture.(*GioTexture)
		if !ok || tex.released {
			continue
		}

		off := op.Offset(image.Pt(int(dc.DstX), int(dc.DstY))).Push(gtx.Ops)

		dstRect := clip.Rect{Max: image.Pt(int(dc.DstW), int(dc.DstH))}
		clipStack := dstRect.Push(gtx.Ops)

		var affineStack op.TransformStack
		hasAffine := dc.SrcW < 1 || dc.SrcH < 1 ||
			dc.DstW != float64(tex.Width) || dc.DstH != float64(tex.Height)
		if hasAffine {
			// Scale the source image so that exactly the requested UV
			// window (the whole texture for a full quad, an ancestor's
			// sub-region for find_parent_fallback) fills the
			// destination rect.
			sx := dc.DstW / (dc.SrcW * float64(tex.Width))
			sy := dc.DstH / (dc.SrcH * float64(tex.Height))
			tr := f32.Affine2D{}.
				Scale(f32.Pt(0, 0), f32.Pt(float32(sx), float32(sy))).
				Offset(f32.Pt(float32(-dc.SrcX*float64(tex.Width)*sx), float32(-dc.SrcY*float64(tex.Height)*sy)))
			affineStack = op.Affine(tr).Push(gtx.Ops)
		}

		tex.Op.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)

		if hasAffine {
			affineStack.Pop()
		}
		clipStack.Pop()
		off.Pop()
	}
}
