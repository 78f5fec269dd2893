// Package imop implements the Porter-Duff composition operations
// used for mixing a graphic element with its backdrop, together with the
// separable and non-separable blend modes of the W3C compositing model.
// The image/draw core package implements only the source-over-destination and source
// operations, this package is aimed to overcome the missing ones.
//
// It is used to tint the filtered region of the split view, where a flat
// toning layer is blended over the aged rendition of the photo.
package imop

import (
	"fmt"
	"image"

	"github.com/retrolens/retrolens/utils"
)

// Porter-Duff composite operations.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap holds the result of a composite operation.
type Bitmap struct {
	Img *image.NRGBA
}

// Composite holds the currently active composite operation.
type Composite struct {
	current string
	ops     []string
}

// NewBitmap allocates a transparent bitmap of the given size.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// InitOp initializes a new composite operation, defaulting to source-over.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set changes the active composite operation.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop

	return nil
}

// Get returns the active composite operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composites the src image over the dst (backdrop) image and stores the result into the bitmap.
// If blend is not nil the source color is first mixed with the backdrop using the blend mode.
// Both images are expected to share the bitmap bounds.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) *Bitmap {
	bounds := src.Bounds().Intersect(dst.Bounds())
	if bitmap == nil {
		bitmap = NewBitmap(bounds)
	}
	bounds = bounds.Intersect(bitmap.Img.Bounds())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		si := src.PixOffset(bounds.Min.X, y)
		di := dst.PixOffset(bounds.Min.X, y)
		bi := bitmap.Img.PixOffset(bounds.Min.X, y)

		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cs := Color{
				R: float64(src.Pix[si+0]) / 255,
				G: float64(src.Pix[si+1]) / 255,
				B: float64(src.Pix[si+2]) / 255,
			}
			cb := Color{
				R: float64(dst.Pix[di+0]) / 255,
				G: float64(dst.Pix[di+1]) / 255,
				B: float64(dst.Pix[di+2]) / 255,
			}
			as := float64(src.Pix[si+3]) / 255
			ab := float64(dst.Pix[di+3]) / 255

			// Mix the source with the backdrop where they overlap.
			if blend != nil {
				mixed := blend.Apply(cs, cb)
				cs.R = (1-ab)*cs.R + ab*mixed.R
				cs.G = (1-ab)*cs.G + ab*mixed.G
				cs.B = (1-ab)*cs.B + ab*mixed.B
			}

			fa, fb := op.factors(as, ab)
			an := as*fa + ab*fb

			var rn, gn, bn float64
			if an > 0 {
				// The channels are stored non-premultiplied.
				rn = (as*fa*cs.R + ab*fb*cb.R) / an
				gn = (as*fa*cs.G + ab*fb*cb.G) / an
				bn = (as*fa*cs.B + ab*fb*cb.B) / an
			}

			bitmap.Img.Pix[bi+0] = toUint8(rn)
			bitmap.Img.Pix[bi+1] = toUint8(gn)
			bitmap.Img.Pix[bi+2] = toUint8(bn)
			bitmap.Img.Pix[bi+3] = toUint8(an)

			si += 4
			di += 4
			bi += 4
		}
	}
	return bitmap
}

// factors returns the Porter-Duff source and destination coefficients.
func (op *Composite) factors(as, ab float64) (fa, fb float64) {
	switch op.current {
	case Clear:
		return 0, 0
	case Copy:
		return 1, 0
	case Dst:
		return 0, 1
	case SrcOver:
		return 1, 1 - as
	case DstOver:
		return 1 - ab, 1
	case SrcIn:
		return ab, 0
	case DstIn:
		return 0, as
	case SrcOut:
		return 1 - ab, 0
	case DstOut:
		return 0, 1 - as
	case SrcAtop:
		return ab, 1 - as
	case DstAtop:
		return 1 - ab, as
	case Xor:
		return 1 - ab, 1 - as
	}
	return 1, 1 - as
}

func toUint8(v float64) uint8 {
	return uint8(utils.Clamp(v, 0, 1)*255 + 0.5)
}
