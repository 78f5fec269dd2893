package retrolens

import (
	"image"
)

// gradient builds an opaque test image with a horizontal red and a vertical green ramp.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = uint8(x * 255 / w)
			img.Pix[i+1] = uint8(y * 255 / h)
			img.Pix[i+2] = 128
			img.Pix[i+3] = 255
		}
	}
	return img
}

// snapshot returns a copy of the image pixels.
func snapshot(img *image.NRGBA) []uint8 {
	return append([]uint8(nil), img.Pix...)
}
