package retrolens

import (
	"image"
	"image/color"
	"math/rand"

	"golang.org/x/image/draw"
)

// DefaultGrainCount is the number of specks scattered over the canvas on every render.
const DefaultGrainCount = 100

// grainColor is a black speck with 3% opacity.
var grainColor = color.NRGBA{R: 0, G: 0, B: 0, A: 8}

// grain scatters single pixel, semi-transparent dark specks over an image.
// The intensity of the grain only toggles the overlay, the number of specks is fixed.
type grain struct {
	count int
	speck *image.Uniform
	rnd   *rand.Rand
}

func newGrain(count int, seed int64) *grain {
	return &grain{
		count: count,
		speck: image.NewUniform(grainColor),
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

// draw composites the specks over dst at uniformly distributed positions.
func (g *grain) draw(dst draw.Image) {
	b := dst.Bounds()
	if b.Empty() {
		return
	}
	for i := 0; i < g.count; i++ {
		x := b.Min.X + g.rnd.Intn(b.Dx())
		y := b.Min.Y + g.rnd.Intn(b.Dy())

		draw.Draw(dst, image.Rect(x, y, x+1, y+1), g.speck, image.Point{}, draw.Over)
	}
}
